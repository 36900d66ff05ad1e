package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tradewatch/tradewatch/internal/repo"
	"github.com/tradewatch/tradewatch/internal/schedule"
	"github.com/tradewatch/tradewatch/internal/service/monitor"
	"github.com/tradewatch/tradewatch/ioc"
)

var (
	once        = pflag.Bool("once", false, "run a single scan and exit")
	dryRun      = pflag.Bool("dry-run", false, "evaluate and log without recording or notifying")
	ignoreClock = pflag.Bool("ignore-market-hours", false, "scan even outside regular trading hours")
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}

	bian := ioc.InitBinanceCli()
	provider := ioc.InitSnapshotProvider(bian)

	signalRepo := repo.NewSignalRepo(db)
	cooldownRepo := repo.NewCooldownRepo(db)
	entryRepo := repo.NewEntryRepo(db)

	cfg := ioc.InitMonitorConfig()
	cfg.DryRun = *dryRun

	svc := monitor.NewAlertMonitor(provider, signalRepo, cooldownRepo, entryRepo, cfg,
		monitor.WithNotifier(ioc.InitNotifier()))
	task := monitor.NewMonitorTask(svc, ioc.InitWatchlist())

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute*10)
		defer cancel()
		if err := task.Run(ctx); err != nil {
			panic(err)
		}
		return
	}

	gate := schedule.MarketOpen
	if *ignoreClock {
		gate = func(now time.Time) bool { return true }
	}
	runner := schedule.NewRunner(task, ioc.InitPollInterval(), schedule.WithGate(gate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := runner.Start(ctx); err != nil && ctx.Err() == nil {
		panic(err)
	}
}
