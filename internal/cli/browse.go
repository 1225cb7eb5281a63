package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ppiankov/incidents/internal/controller"
	"github.com/ppiankov/incidents/internal/coverage"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/logging"
	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/sample"
)

var browseStartID int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse random records interactively",
	Long: `Browse shows one random record and lets you reload, change filters, or
jump to a record by id. Commands:

  reload, r          draw a new record with the current filters
  race <name>        toggle a race category (white, black, hispanic, other)
  armed <name>       toggle an armed category (gun, knife, unarmed, other)
  full               toggle records with full content
  deficient          toggle records missing supplementary content
  goto <id>          show a specific record
  stats              show how many records match
  filters            show the enabled categories
  quit, q            exit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().IntVar(&browseStartID, "id", -1, "start at this record instead of drawing")
}

// console serialises output from the prompt loop and fetch completions
type console struct {
	mu  sync.Mutex
	out io.Writer

	// last displayed snapshot; filter and tier toggles leave both unchanged
	shown   bool
	lastSeq uint64
	last    *model.Incident
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// show redraws the record when an idle snapshot changes what is displayed
func (c *console) show(s controller.State) {
	if s.Phase != controller.Idle {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shown && s.Seq == c.lastSeq && s.Current == c.last {
		return
	}
	c.shown, c.lastSeq, c.last = true, s.Seq, s.Current

	fmt.Fprintln(c.out)
	if s.NoResult() {
		fmt.Fprintln(c.out, "No result")
	} else {
		printIncident(c.out, *s.Current)
	}
	fmt.Fprint(c.out, "> ")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	idx, err := loadIndex(appConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	con := &console{out: cmd.OutOrStdout()}

	loc := controller.NewMemoryLocation()
	if browseStartID >= 0 {
		loc = controller.NewMemoryLocationAt(browseStartID)
	}

	ctl := controller.New(sample.NewSampler(idx, nil), newFetcher(appConfig), loc, controller.Options{
		Policy:       configPolicy(appConfig),
		DiscardStale: appConfig.Selection.DiscardStale,
		Logger:       logging.New("controller"),
		OnChange:     con.show,
	})
	loc.OnChange(ctl.Navigate)

	con.printf("%s\n%s\n", title, coverage.Calculate(idx, ctl.State().Filter).String())
	if err := ctl.Activate(ctx); err != nil {
		return err
	}

	return browseLoop(ctx, cmd.InOrStdin(), con, idx, ctl, loc)
}

func browseLoop(ctx context.Context, in io.Reader, con *console, idx *index.Index, ctl *controller.Controller, loc *controller.MemoryLocation) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			con.printf("> ")
			continue
		}

		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "q", "exit":
			return nil
		case "reload", "r":
			if err := ctl.Reload(ctx); err != nil {
				return err
			}
		case "race":
			r, err := model.ParseRace(arg)
			if err != nil {
				con.printf("%v\n> ", err)
				continue
			}
			s := ctl.ToggleRace(r)
			con.printf("%s\n> ", coverage.Calculate(idx, s.Filter))
		case "armed":
			a, err := model.ParseArmed(arg)
			if err != nil {
				con.printf("%v\n> ", err)
				continue
			}
			s := ctl.ToggleArmed(a)
			con.printf("%s\n> ", coverage.Calculate(idx, s.Filter))
		case "full":
			con.printf("tiers: %s\n> ", ctl.ToggleFull().Policy)
		case "deficient":
			con.printf("tiers: %s\n> ", ctl.ToggleDeficient().Policy)
		case "goto":
			id, err := strconv.Atoi(arg)
			if err != nil || id < 0 {
				con.printf("goto needs a non-negative id\n> ")
				continue
			}
			loc.Publish(ctx, id)
		case "stats":
			con.printf("%s\n> ", coverage.Calculate(idx, ctl.State().Filter))
		case "filters":
			s := ctl.State()
			con.printf("%s tiers=%s\n> ", s.Filter, s.Policy)
		default:
			con.printf("unknown command %q (try reload, race, armed, full, deficient, goto, stats, filters, quit)\n> ", fields[0])
		}
	}
	return scanner.Err()
}
