package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names onto config keys where the two differ.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"cors-origins":  "cors.origins",
	"poll-interval": "pollInterval",
	"session-ttl":   "sessionTTL",
}

// #############################################################################

func PrintInfo(w io.Writer, role string, rows [][2]string) {
	color.Set(color.FgGreen, color.Bold)
	defer color.Unset()

	sep := ": "
	fmt.Fprintf(w, "{CONFIG}\tTime%s%s\n", sep, time.Now().String())
	fmt.Fprintf(w, "{CONFIG}\tRole%s%s\n", sep, role)
	for _, r := range rows {
		fmt.Fprintf(w, "{CONFIG}\t%s%s%s\n", r[0], sep, r[1])
	}
	fmt.Fprintln(w, "")
}

func poolRows(o PoolOpts, prof string) [][2]string {
	workers := strconv.Itoa(o.Workers)
	if o.Workers <= 0 {
		workers = fmt.Sprintf("%d (NumCPU)", runtime.NumCPU())
	}
	return [][2]string{
		{"Workers", workers},
		{"Progress", strconv.FormatBool(o.Progress)},
		{"Profile", strconv.FormatBool(prof != "")},
	}
}

func printResult(w io.Writer, res *IntersectionResult, elapsed time.Duration) {
	color.Set(color.FgMagenta, color.Bold)
	defer color.Unset()

	avg := "null"
	if res.AverageAge != nil {
		avg = strconv.FormatFloat(*res.AverageAge, 'f', 2, 64)
	}
	fmt.Fprintf(w, "{RESULT}\tSize => %d\n", res.Size)
	fmt.Fprintf(w, "{RESULT}\tAverage age => %s\n", avg)
	fmt.Fprintf(w, "{RESULT}\tIntersection => %s\n", strings.Join(res.Intersection, ", "))
	fmt.Fprintf(w, "{RESULT}\tElapsed => %s\n", elapsed)
}

// #############################################################################

// bindFlags makes flags the highest-precedence source for vip.
func bindFlags(vip *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		if e := vip.BindPFlag(key, f); e != nil && err == nil {
			err = e
		}
	})
	return err
}

// setup binds flags, reads the config file and applies the log level.
func setup(vip *viper.Viper, cmd *cobra.Command) error {
	if err := bindFlags(vip, cmd.Flags()); err != nil {
		return configError("binding flags: %v", err)
	}
	if err := ReadConfigFile(vip, vip.GetString("config")); err != nil {
		return err
	}
	if _, set := os.LookupEnv("LOG"); !set {
		if err := SetLogLevel(vip.GetString("log.level")); err != nil {
			return configError("log.level: %v", err)
		}
	}
	return nil
}

func startProfile(dir string) (func(), error) {
	if dir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, configError("profile directory %s: %v", dir, err)
	}
	return profile.Start(profile.ProfilePath(dir), profile.NoShutdownHook).Stop, nil
}

// #############################################################################

func participantCmd(vip *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Serve one participant's dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(vip, cmd); err != nil {
				return err
			}
			cfg, err := NewPartyConfig(vip)
			if err != nil {
				return err
			}
			stopProfile, err := startProfile(cfg.Profile)
			if err != nil {
				return err
			}
			defer stopProfile()

			p, err := NewParty(cfg, NewGroupParams())
			if err != nil {
				return configError("%v", err)
			}

			relay := cfg.Relay
			if relay == "" {
				relay = "-"
			}
			PrintInfo(os.Stdout, "participant", append([][2]string{
				{"Label", cfg.Label},
				{"Port", strconv.Itoa(cfg.Port)},
				{"Peer", cfg.Peer},
				{"Relay", relay},
				{"Records", strconv.Itoa(len(p.records))},
				{"Mode", p.DefaultMode()},
			}, poolRows(cfg.Pool, cfg.Profile)...))

			return Serve(cmd.Context(), cfg.Port, NewPartyHandler(p), p.log)
		},
	}
	fs := cmd.Flags()
	fs.Int("port", 0, "listen port (default 3000)")
	fs.String("label", "", "participant label")
	fs.String("peer", "", "peer participant address")
	fs.String("relay", "", "relay address, enables relay mode by default")
	fs.String("dataset", "", "JSON dataset path")
	fs.Duration("timeout", defaultTimeout, "per round-trip timeout")
	fs.Duration("poll-interval", defaultPollInterval, "relay poll interval")
	return cmd
}

func relayCmd(vip *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve the oblivious relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(vip, cmd); err != nil {
				return err
			}
			cfg, err := NewRelayConfig(vip)
			if err != nil {
				return err
			}
			stopProfile, err := startProfile(cfg.Profile)
			if err != nil {
				return err
			}
			defer stopProfile()

			r := NewRelay(NewGroupParams(), cfg, nil)
			PrintInfo(os.Stdout, "relay", append([][2]string{
				{"Port", strconv.Itoa(cfg.Port)},
				{"Session TTL", cfg.SessionTTL.String()},
			}, poolRows(cfg.Pool, cfg.Profile)...))

			return Serve(cmd.Context(), cfg.Port, NewRelayHandler(r, cfg.CORSOrigins), r.log)
		},
	}
	fs := cmd.Flags()
	fs.Int("port", 0, "listen port (default 4000)")
	fs.Duration("session-ttl", defaultSessionTTL, "idle time before a relay session is dropped")
	return cmd
}

func runCmd(vip *viper.Viper) *cobra.Command {
	var participant, mode, bench string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger a protocol run on a participant and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(vip, cmd); err != nil {
				return err
			}
			var watch Stopwatch
			watch.Reset()

			res, err := NewClient(timeout).Run(cmd.Context(), participant, mode)
			if err != nil {
				return err
			}
			elapsed := watch.Elapsed()
			printResult(os.Stdout, res, elapsed)

			if bench != "" {
				avg := ""
				if res.AverageAge != nil {
					avg = fmt.Sprintf("%f", *res.AverageAge)
				}
				line := strings.Join([]string{participant, mode, strconv.Itoa(res.Size), avg, elapsed.String()}, ",")
				if err := AppendFile(bench, []string{line}); err != nil {
					return err
				}
				color.Set(color.FgBlue)
				fmt.Printf("\nBenchmark written to %s\n", bench)
				color.Unset()
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&participant, "participant", "localhost:3000", "participant address")
	fs.StringVar(&mode, "mode", "", "direct or relay (default: the participant's default)")
	fs.StringVar(&bench, "bench", "", "append a CSV line with the result to this file")
	fs.DurationVar(&timeout, "wait", 5*time.Minute, "how long to wait for the run")
	return cmd
}

func generateCmd(vip *viper.Viper) *cobra.Command {
	var nA, nB, overlap int
	var dataDir string
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write two synthetic datasets with a known overlap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(vip, cmd); err != nil {
				return err
			}
			data, err := NewSampleData(nA, nB, overlap, dataDir, seed)
			if err != nil {
				return configError("%v", err)
			}
			paths, err := data.Write()
			if err != nil {
				return err
			}
			size, avg := data.ComputeStats()

			color.Set(color.FgMagenta, color.Bold)
			defer color.Unset()
			fmt.Printf("{RESULT}\tDatasets => %s\n", strings.Join(paths, ", "))
			fmt.Printf("{RESULT}\tTrue size => %d\n", size)
			if avg != nil {
				fmt.Printf("{RESULT}\tTrue average age (A) => %.2f\n", *avg)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&nA, "a", 1000, "records in dataset A")
	fs.IntVar(&nB, "b", 1000, "records in dataset B")
	fs.IntVar(&overlap, "overlap", 100, "shared identifiers")
	fs.StringVar(&dataDir, "data-dir", "data", "output directory")
	fs.Int64Var(&seed, "seed", time.Now().UnixNano(), "generator seed")
	return cmd
}

// #############################################################################

func NewRootCmd(vip *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "dh_psi",
		Short:         "Diffie-Hellman private set intersection with an optional oblivious relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "yaml config file")
	pf.String("log-level", "info", "log level")
	pf.Int("workers", 0, "worker goroutines per batch (default NumCPU)")
	pf.Bool("progress", false, "show progress bars")
	pf.String("profile", "", "write CPU profiles to this directory")
	pf.StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")

	root.AddCommand(participantCmd(vip), relayCmd(vip), runCmd(vip), generateCmd(vip))
	return root
}

func main() {
	color.Set(color.FgBlue, color.Bold, color.Underline)
	fmt.Println("DH Private Set Intersection")
	fmt.Println("")
	color.Unset()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(NewViper()).ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "{ERROR}\t%v\n", err)
		if IsKind(err, KindConfiguration) {
			fmt.Fprintln(os.Stderr, "see --help for the available settings")
		}
		stop()
		os.Exit(1)
	}
}
