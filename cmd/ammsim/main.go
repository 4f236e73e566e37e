package main

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/meverselabs/ammcore/cmd/config"
	"github.com/meverselabs/ammcore/common/debug"
	"github.com/meverselabs/ammcore/common/rlog"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/meverselabs/ammcore/contract/stableswap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	var debug bool
	var rootCmd = &cobra.Command{Use: "ammsim"}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "prints solver and config details")
	cobra.OnInitialize(func() {
		rlog.EnableDebug(debug)
	})
	rootCmd.AddCommand(runCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	var dump, profile bool
	var cacheSize int
	cmd := &cobra.Command{
		Use:          "run [scenario]",
		Short:        "applies the operations of a toml or yaml scenario to its pool",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc Scenario
			if err := config.LoadFile(args[0], &sc); err != nil {
				return err
			}
			var p *debug.Profiler
			if profile {
				p = debug.NewProfiler()
			}
			if err := RunScenario(&sc, cacheSize, dump, p); err != nil {
				return err
			}
			if p != nil {
				p.Report()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dumps the pool state after every operation")
	cmd.Flags().BoolVar(&profile, "profile", false, "reports the time spent per operation kind")
	cmd.Flags().IntVar(&cacheSize, "cache", 0, "memoises this many invariants, 0 disables the cache")
	return cmd
}

func newCurve(cfg stableswap.Config, cacheSize int) (*stableswap.Curve, error) {
	if cfg.MaxDIterations == 0 && cfg.MaxYIterations == 0 {
		cfg = stableswap.DefaultConfig()
	}
	if cacheSize > 0 {
		return stableswap.NewCachedCurve(cfg, cacheSize)
	}
	return stableswap.NewCurve(cfg)
}

// RunScenario plays the pool operations and then the farm of sc.
// Operations are timed when p is not nil.
func RunScenario(sc *Scenario, cacheSize int, dump bool, p *debug.Profiler) error {
	if len(sc.Pool.Assets) > 0 {
		curve, err := newCurve(sc.Solver, cacheSize)
		if err != nil {
			return err
		}
		rlog.Debugf("solver %+v", curve.Config())
		pool, err := NewPool(sc.Pool)
		if err != nil {
			return err
		}
		for k, op := range sc.Operations {
			var t *debug.Timer
			if p != nil {
				t = p.Start(op.Kind)
			}
			if err := pool.Apply(curve, op); err != nil {
				return errors.Wrapf(err, "operation %d (%s)", k, op.Kind)
			}
			if t != nil {
				t.Stop()
			}
			D, err := curve.CalculateD(pool.Reserves, pool.Amplification)
			if err != nil {
				return err
			}
			rlog.Printf("    D %s issuance %s", safemath.ToDecimal(D, pool.Precision()).String(), pool.Issuance.Dec())
			if dump {
				spew.Dump(pool)
			}
		}
		if cacheSize > 0 {
			rlog.Debugf("memoised invariants %d", curve.CacheLen())
		}
	}
	if sc.Farm != nil {
		return RunFarm(sc.Farm)
	}
	return nil
}
