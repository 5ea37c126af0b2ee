package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/mikey/mail-priority-sorter/internal/adapters/filter"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"gopkg.in/yaml.v3"
)

// writeObject renders v as JSON or YAML
func writeObject(w io.Writer, format string, v any) error {
	switch format {
	case filter.OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case filter.OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// writeSettings renders settings in the requested format
func writeSettings(w io.Writer, format string, settings *core.Settings) error {
	if format == filter.OutputTable || format == "" {
		writeSettingsTable(w, settings)
		return nil
	}
	return writeObject(w, format, settings)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}

func writeSettingsTable(w io.Writer, settings *core.Settings) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ENABLED\t%t\n", settings.Enabled)
	_, _ = fmt.Fprintf(tw, "AUTO_SORT\t%t\n", settings.AutoSort)
	_, _ = fmt.Fprintf(tw, "SHOW_SCORES\t%t\n", settings.ShowScores)
	_, _ = fmt.Fprintf(tw, "SHOW_BADGES\t%t\n", settings.ShowBadges)
	_, _ = fmt.Fprintf(tw, "THEME\t%s\n", settings.Theme)
	_, _ = fmt.Fprintf(tw, "VIP\t%s\n", joinOrDash(settings.VIPList))
	_, _ = fmt.Fprintf(tw, "IGNORE\t%s\n", joinOrDash(settings.IgnoreList))
	_, _ = fmt.Fprintf(tw, "RULES\t%d\n", len(settings.CustomRules))
	_ = tw.Flush()

	if len(settings.CustomRules) > 0 {
		_, _ = fmt.Fprintln(w)
		writeRuleTable(w, settings.CustomRules)
	}
}

func describeCondition(c core.Condition) string {
	desc := fmt.Sprintf("%s %s %q", c.Field, c.MatchMode, c.Pattern)
	if c.CaseSensitive {
		desc += " (case)"
	}
	return desc
}

func writeRuleTable(w io.Writer, rules []core.Rule) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tENABLED\tBOOST\tCONDITIONS")
	for _, rule := range rules {
		conditions := make([]string, 0, len(rule.Conditions))
		for _, c := range rule.Conditions {
			conditions = append(conditions, describeCondition(c))
		}
		boost := strconv.Itoa(rule.ScoreDelta)
		if rule.ScoreDelta > 0 {
			boost = "+" + boost
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", rule.ID, rule.Name, rule.Enabled, boost, joinOrDash(conditions))
	}
	_ = tw.Flush()
}
