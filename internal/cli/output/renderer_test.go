package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dossier/internal/person"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

var people = []person.Person{
	{ID: 1, Name: "Bob", Rank: "Sergeant", Mobile: "555-1234"},
	{ID: 2, Name: "Alice, Jr.", Rank: "Soldier", Mobile: ""},
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"table", ModeText, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{" csv ", ModeCSV, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty piped", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text piped", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_NonTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Persons")
	r.Success("saved")
	r.Muted("note")
	r.Error("broken")
	require.NoError(t, r.Persons(people))

	assert.False(t, ansiPattern.MatchString(out.String()), "stdout: %q", out.String())
	assert.False(t, ansiPattern.MatchString(errOut.String()), "stderr: %q", errOut.String())
	assert.Contains(t, errOut.String(), "Error: broken")
}

func TestRenderer_NotAFileIsNotATerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_PersonsText(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	require.NoError(t, r.Persons(people))

	s := out.String()
	for _, want := range []string{"ID", "NAME", "RANK", "MOBILE", "Bob", "Sergeant", "555-1234", "(2 persons)"} {
		assert.Contains(t, s, want)
	}
	assert.Less(t, strings.Index(s, "Bob"), strings.Index(s, "Alice"), "input order is kept")
}

func TestRenderer_PersonsMarkdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeAuto, false)
	require.NoError(t, r.Persons(people))

	s := out.String()
	assert.Contains(t, strings.ToLower(s), "| id | name | rank | mobile |")
	assert.Contains(t, s, "| 1 | Bob | Sergeant | 555-1234 |")
	assert.Contains(t, s, "2 persons")
}

func TestRenderer_PersonsCSV(t *testing.T) {
	r, out, _ := newTestRenderer(ModeCSV, false)
	require.NoError(t, r.Persons(people))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,rank,mobile", strings.ToLower(lines[0]))
	assert.Equal(t, "1,Bob,Sergeant,555-1234", lines[1])
	assert.Equal(t, `2,"Alice, Jr.",Soldier,`, lines[2])

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2", "Alice, Jr.", "Soldier", ""}, records[2], "commas survive a CSV reader")
}

func TestRenderer_PersonsCSVQuotes(t *testing.T) {
	r, out, _ := newTestRenderer(ModeCSV, false)
	quoted := person.Person{ID: 5, Name: `Ann "Red" Lee`, Rank: "Soldier", Mobile: "1,2"}
	require.NoError(t, r.Persons([]person.Person{quoted}))

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, quoted.Cells(), records[1])
}

func TestRenderer_PersonsJSON(t *testing.T) {
	tests := []struct {
		name   string
		people []person.Person
		count  int
	}{
		{"rows", people, 2},
		{"nil is an empty list", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, _ := newTestRenderer(ModeJSON, false)
			require.NoError(t, r.Persons(tt.people))

			var got PersonsOutput
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, tt.count, got.Count)
			assert.NotNil(t, got.Persons)
			assert.Contains(t, out.String(), `"persons": [`)
		})
	}
}

func TestRenderer_PersonsEmpty(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	require.NoError(t, r.Persons(nil))
	assert.Contains(t, out.String(), "(0 persons)")

	r, out, _ = newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Persons(nil))
	assert.Contains(t, out.String(), "_No persons._")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Store", FormatHeader(2, "Store"))
	assert.Equal(t, "# Store", FormatHeader(0, "Store"))
	assert.Equal(t, "- **Driver:** sqlite", FormatKeyValue("Driver", "sqlite"))
	assert.Equal(t, "```sql\nSELECT 1\n```", FormatCodeBlock("sql", "SELECT 1\n"))
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.StatusLine("persons table", "success", "version 1")
	assert.Equal(t, "✓ persons table (version 1)\n", out.String())

	r, out, _ = newTestRenderer(ModeMarkdown, false)
	r.StatusLine("dossier.yaml", "skipped", "")
	assert.Equal(t, "- [skipped] dossier.yaml\n", out.String())
}
