package main

import (
	"context"
	"flag"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/candy/machine"
	"github.com/MixinNetwork/candy/registry"
	"github.com/MixinNetwork/candy/store"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.mixin/candy/data", "database directory path")
	cp := flag.String("c", "~/.mixin/candy/config.toml", "configuration file path")
	flag.Parse()

	if strings.HasPrefix(*cp, "~/") {
		usr, _ := user.Current()
		*cp = filepath.Join(usr.HomeDir, (*cp)[2:])
	}
	conf, err := machine.Setup(*cp)
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if strings.HasPrefix(*bp, "~/") {
		usr, _ := user.Current()
		*bp = filepath.Join(usr.HomeDir, (*bp)[2:])
	}
	db, err := store.OpenBadger(ctx, *bp, logger)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	m := machine.NewMachine(db, registry.NewClient(conf.Registry.Endpoint))
	err = m.Bootstrap(conf)
	if err != nil {
		panic(err)
	}

	clock, err := machine.NewClock(db)
	if err != nil {
		panic(err)
	}
	w := NewPendingWorker(m, clock, logger)
	w.Run(ctx)
}
