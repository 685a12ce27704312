package main

import (
	"context"

	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	"github.com/aniweek-io/web-ui/services/airing"
	animeService "github.com/aniweek-io/web-ui/services/anime"
	"github.com/aniweek-io/web-ui/services/common"
	"github.com/aniweek-io/web-ui/services/refresh"
)

func makeRefreshCMD() cli.Command {
	refreshCMD := cli.Command{
		Name:    "refresh",
		Aliases: []string{"r"},
		Usage:   "Recomputes derived schedule state once",
		Action:  refreshOnce,
	}
	configureRefresh(&refreshCMD)
	return refreshCMD
}

func configureRefresh(c *cli.Command) {
	c.Flags = cs.RegisterPGFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = refresh.RegisterFlags(c.Flags)
}

func refreshOnce(c *cli.Context) error {
	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	// Setting Airing Engine
	engine, err := airing.New(c)
	if err != nil {
		return err
	}

	// Setting Anime Service
	anime := animeService.NewService(animeService.NewStore(pg), nil, engine)

	// Setting Refresher
	ref := refresh.New(c, anime.RefreshDerived)

	// Run
	return ref.RunOnce(context.Background())
}
