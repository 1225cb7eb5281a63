package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/incidents/internal/controller"
	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/sample"
)

const testDataset = "../index/testdata/db.json"

func TestStatsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"stats", "--dataset", testDataset, "--race", "white", "--groups"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("stats: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "3 out of 5 people match your filters (60%)") {
		t.Errorf("missing coverage line:\n%s", got)
	}
	if !strings.Contains(got, "White") || strings.Contains(got, "Black") {
		t.Errorf("expected only the White group listed:\n%s", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("got %q, want %q", out.String(), version)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := writeDefaultConfig(path, cmd); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("expected path in output, got %q", out.String())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got model.Config
	if err := yaml.Unmarshal(raw, &got); err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	if diff := cmp.Diff(*model.DefaultConfig(), got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := writeDefaultConfig(path, cmd); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	registerDefaults(model.DefaultConfig())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := model.DefaultConfig()
	if cfg.HTTP.Timeout != want.HTTP.Timeout || cfg.Selection != want.Selection {
		t.Errorf("loadConfig = %+v, want defaults", cfg)
	}
}

func TestFilterFlagsPolicy(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Selection.IncludeDeficient = false

	f := filterFlags{}
	p, err := f.policy(cfg)
	if err != nil || p != (filter.Policy{IncludeFull: true}) {
		t.Errorf("config policy = %+v, %v", p, err)
	}

	f.tier = "deficient"
	p, err = f.policy(cfg)
	if err != nil || p != (filter.Policy{IncludeDeficient: true}) {
		t.Errorf("flag policy = %+v, %v", p, err)
	}

	f.tier = "bogus"
	if _, err := f.policy(cfg); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestPrintIncident(t *testing.T) {
	var out bytes.Buffer
	printIncident(&out, model.Incident{
		Name:      "Jane Doe",
		Age:       0,
		Race:      "Hispanic",
		Armed:     "knife",
		City:      "Austin",
		State:     "TX",
		Date:      "2018-03-01",
		Summary:   "summary text",
		Defaulted: true,
	})

	got := out.String()
	for _, want := range []string{
		"Jane Doe\n",
		"knife, Hispanic, age unknown\n",
		"Austin, TX · 2018-03-01\n",
		"summary text\n",
		"showing defaults",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

type nameFetcher struct{}

func (nameFetcher) Fetch(ctx context.Context, id int) model.Incident {
	return model.Incident{ID: id, Name: "Record " + strconv.Itoa(id)}
}

func TestBrowseLoop(t *testing.T) {
	idx, err := index.Load(testDataset)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	con := &console{out: &out}
	loc := controller.NewMemoryLocation()
	ctl := controller.New(sample.NewSampler(idx, nil), nameFetcher{}, loc, controller.Options{
		Policy:       filter.BothTiers(),
		DiscardStale: true,
		Dispatch:     func(fn func()) { fn() },
		OnChange:     con.show,
	})
	loc.OnChange(ctl.Navigate)

	script := strings.Join([]string{
		"race white",
		"full",
		"filters",
		"goto 4",
		"race purple",
		"dance",
		"",
		"q",
		"reload",
	}, "\n")

	if err := browseLoop(context.Background(), strings.NewReader(script), con, idx, ctl, loc); err != nil {
		t.Fatalf("browseLoop: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"2 out of 5 people match your filters (40%)",
		"tiers: deficient",
		"race=[Black,Hispanic,Other] armed=[Gun,Knife,Unarmed,Other] tiers=deficient",
		"Record 4",
		"unknown command \"dance\"",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if id, ok := loc.Current(); !ok || id != 4 {
		t.Errorf("location = %d, %v; want 4", id, ok)
	}
	if st := ctl.State(); st.Current == nil || st.Current.ID != 4 {
		t.Errorf("commands after quit were run: %+v", st)
	}
}

func TestBrowseTogglesDoNotRedraw(t *testing.T) {
	idx, err := index.Load(testDataset)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	con := &console{out: &out}
	loc := controller.NewMemoryLocation()
	ctl := controller.New(sample.NewSampler(idx, nil), nameFetcher{}, loc, controller.Options{
		Policy:   filter.BothTiers(),
		Dispatch: func(fn func()) { fn() },
		OnChange: con.show,
	})
	loc.OnChange(ctl.Navigate)

	script := strings.Join([]string{
		"goto 4",
		"race white",
		"armed gun",
		// with both tiers off every reload misses
		"full",
		"deficient",
		"reload",
		"race black",
		"reload",
	}, "\n")

	if err := browseLoop(context.Background(), strings.NewReader(script), con, idx, ctl, loc); err != nil {
		t.Fatalf("browseLoop: %v", err)
	}

	got := out.String()
	if n := strings.Count(got, "Record 4"); n != 1 {
		t.Errorf("record printed %d times, want 1:\n%s", n, got)
	}
	if n := strings.Count(got, "No result"); n != 2 {
		t.Errorf("\"No result\" printed %d times, want one per reload:\n%s", n, got)
	}
}

func TestDrawCommandFetch(t *testing.T) {
	dir := t.TempDir()
	for id := 1; id <= 5; id++ {
		rec := `{"id":` + strconv.Itoa(id) + `,"name":"Person ` + strconv.Itoa(id) + `","gender":"F","race":"W","armed":"gun"}`
		if err := os.WriteFile(filepath.Join(dir, strconv.Itoa(id)+".json"), []byte(rec), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	viper.Set("detail.dir", dir)
	t.Cleanup(func() { viper.Set("detail.dir", model.DefaultConfig().Detail.Dir) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"draw", "--dataset", testDataset, "--race", "white", "--tier", "full", "-n", "4", "--fetch"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("draw: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	for _, line := range lines {
		// Only ids 1 and 2 are full-content White/Gun records
		if !strings.HasPrefix(line, "1\tPerson 1\tgun, White, age unknown") &&
			!strings.HasPrefix(line, "2\tPerson 2\tgun, White, age unknown") {
			t.Errorf("unexpected line %q", line)
		}
	}
}
