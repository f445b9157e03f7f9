package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/dossier/internal/cli/config"
	"github.com/leapstack-labs/dossier/internal/cli/output"
	"github.com/leapstack-labs/dossier/internal/person"
	"github.com/leapstack-labs/dossier/internal/store"
)

// Health check statuses.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
	checkSkip  = "skip"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and the record store",
		Long: `Report on the configuration and the health of the record store.

The doctor command never creates the store or applies migrations. It checks:
- which configuration file is in use
- that the store can be reached
- that the persons table exists at the current schema version
- that every stored rank is one the forms offer

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  dossier doctor

  # Output as JSON
  dossier doctor -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary      StoreSummary  `json:"summary"`
	HealthChecks []HealthCheck `json:"health_checks"`
	IssueCount   int           `json:"issue_count"`
}

// StoreSummary contains store-level facts.
type StoreSummary struct {
	ConfigFile    string `json:"config_file,omitempty"`
	Driver        string `json:"driver"`
	Location      string `json:"location"`
	SchemaVersion int64  `json:"schema_version"`
	Persons       int    `json:"persons"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

// errUnhealthy is returned when at least one check failed.
var errUnhealthy = errors.New("store health check failed")

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	out := checkStore(cmd.Context(), cmdCtx)

	var err error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(out)
	case output.ModeText:
		renderDoctorText(r, out)
	default:
		renderDoctorMarkdown(r, out)
	}
	if err != nil {
		return err
	}

	for _, c := range out.HealthChecks {
		if c.Status == checkError {
			return errUnhealthy
		}
	}
	return nil
}

// checkStore runs the checks in order. A failed check skips the ones
// that depend on it.
func checkStore(ctx context.Context, cmdCtx *CommandContext) *DoctorOutput {
	cfg := cmdCtx.Cfg
	out := &DoctorOutput{
		Summary: StoreSummary{
			ConfigFile: config.GetConfigFileUsed(),
			Driver:     cfg.Store.Driver,
		},
	}
	add := func(c HealthCheck) bool {
		if c.Status == checkWarn || c.Status == checkError {
			out.IssueCount++
		}
		out.HealthChecks = append(out.HealthChecks, c)
		return c.Status != checkError && c.Status != checkSkip
	}
	skip := func(id, name, group string) {
		add(HealthCheck{ID: id, Name: name, Group: group, Status: checkSkip})
	}

	cfgCheck := HealthCheck{ID: "CF01", Name: "configuration file", Group: "config", Status: checkPass}
	if out.Summary.ConfigFile == "" {
		cfgCheck.Status = checkWarn
		cfgCheck.Details = []string{"no " + config.DefaultConfigFile + " found; using defaults and environment"}
	} else {
		cfgCheck.Details = []string{out.Summary.ConfigFile}
	}
	add(cfgCheck)

	gw, err := store.NewGateway(cfg.Store.Gateway(), cmdCtx.Logger)
	if err != nil {
		add(HealthCheck{ID: "ST01", Name: "store reachable", Group: "store", Status: checkError, Details: []string{err.Error()}})
		skip("ST02", "schema version", "store")
		skip("RC01", "known ranks", "records")
		return out
	}
	out.Summary.Location = gw.Location()

	reach := HealthCheck{ID: "ST01", Name: "store reachable", Group: "store", Status: checkPass}
	if gw.Dialect().FileBacked {
		if _, err := os.Stat(cfg.Store.Path); err != nil {
			reach.Status = checkError
			reach.Details = []string{fmt.Sprintf("%s does not exist; run 'dossier init'", cfg.Store.Path)}
		}
	}
	if reach.Status == checkPass {
		if err := gw.WithConn(ctx, func(_ *sql.DB) error { return nil }); err != nil {
			reach.Status = checkError
			reach.Details = []string{err.Error()}
		}
	}
	if !add(reach) {
		skip("ST02", "schema version", "store")
		skip("RC01", "known ranks", "records")
		return out
	}

	schema := HealthCheck{ID: "ST02", Name: "schema version", Group: "store", Status: checkPass}
	version, err := gw.MigrationVersion(ctx)
	switch {
	case err != nil:
		schema.Status = checkError
		schema.Details = []string{err.Error()}
	case version == 0:
		schema.Status = checkError
		schema.Details = []string{"the persons table has not been created; run 'dossier init'"}
	default:
		out.Summary.SchemaVersion = version
		schema.Details = []string{fmt.Sprintf("version %d", version)}
	}
	if !add(schema) {
		skip("RC01", "known ranks", "records")
		return out
	}

	ranks := HealthCheck{ID: "RC01", Name: "known ranks", Group: "records", Status: checkPass}
	people, err := person.NewRepository(gw, cmdCtx.Logger).ListAll(ctx)
	if err != nil {
		ranks.Status = checkError
		ranks.Details = []string{err.Error()}
	}
	out.Summary.Persons = len(people)
	for _, p := range people {
		if !person.IsRank(p.Rank) {
			ranks.Status = checkWarn
			ranks.Details = append(ranks.Details, fmt.Sprintf("#%d %s has rank %q", p.ID, p.Name, p.Rank))
		}
	}
	add(ranks)

	return out
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Dossier Store Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Store Summary"))
	r.Printf("   Driver: %s | Location: %s\n", out.Summary.Driver, out.Summary.Location)
	r.Printf("   Schema: %d | Persons: %d\n", out.Summary.SchemaVersion, out.Summary.Persons)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Label.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case checkWarn:
			icon = styles.Warning.Render("!")
		case checkError:
			icon = styles.Error.Render("✗")
		case checkSkip:
			icon = styles.Muted.Render("-")
		}
		r.Printf("   %s %s: %s\n", icon, check.ID, check.Name)

		// Show first 3 details
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	if out.IssueCount == 0 {
		r.Success("No issues found")
	} else {
		r.Printf("   %s\n", styles.Warning.Render(fmt.Sprintf("%d issue(s) found", out.IssueCount)))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# Dossier Store Health Report")
	r.Println("")

	r.Println("## Store Summary")
	r.Println("")
	if out.Summary.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.Summary.ConfigFile))
	}
	r.Println(output.FormatKeyValue("Driver", out.Summary.Driver))
	r.Println(output.FormatKeyValue("Location", out.Summary.Location))
	r.Println(output.FormatKeyValue("Schema Version", fmt.Sprint(out.Summary.SchemaVersion)))
	r.Println(output.FormatKeyValue("Persons", fmt.Sprint(out.Summary.Persons)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s: %s\n", strings.ToUpper(check.Status), check.ID, check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")
	r.Printf("**%d issue(s)**\n", out.IssueCount)
}
