package main

import (
	"context"
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	"github.com/aniweek-io/web-ui/services/airing"
	animeService "github.com/aniweek-io/web-ui/services/anime"
	"github.com/aniweek-io/web-ui/services/common"
	exportService "github.com/aniweek-io/web-ui/services/export"
)

const (
	exportFileFlag = "file"
)

func makeExportCMD() cli.Command {
	exportCMD := cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Exports all anime records to a JSON document",
		Action:  exportToFile,
	}
	configureTransfer(&exportCMD, "aniweek-export.json")
	return exportCMD
}

func makeImportCMD() cli.Command {
	importCMD := cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Imports anime records from a JSON document",
		Action:  importFromFile,
	}
	configureTransfer(&importCMD, "aniweek-export.json")
	return importCMD
}

func configureTransfer(c *cli.Command, defaultFile string) {
	c.Flags = cs.RegisterPGFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = append(c.Flags, cli.StringFlag{
		Name:   exportFileFlag,
		Usage:  "path to the transfer document",
		Value:  defaultFile,
		EnvVar: "ANIWEEK_TRANSFER_FILE",
	})
}

func makeExportService(c *cli.Context, pg *cs.PG) (*exportService.Service, error) {
	engine, err := airing.New(c)
	if err != nil {
		return nil, err
	}
	anime := animeService.NewService(animeService.NewStore(pg), nil, engine)
	return exportService.New(anime, common.GetDomain(c)), nil
}

func exportToFile(c *cli.Context) error {
	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	// Setting Export Service
	exp, err := makeExportService(c, pg)
	if err != nil {
		return err
	}

	doc, err := exp.Export(context.Background())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	path := c.String(exportFileFlag)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return err
	}
	log.WithField("path", path).WithField("count", len(doc.AnimeList)).Info("exported anime records")
	return nil
}

func importFromFile(c *cli.Context) error {
	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	// Setting Export Service
	exp, err := makeExportService(c, pg)
	if err != nil {
		return err
	}

	path := c.String(exportFileFlag)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	sum, err := exp.Import(context.Background(), f)
	if err != nil {
		return err
	}
	log.WithField("path", path).WithField("added", sum.Added).WithField("skipped", len(sum.Skipped)).Info("imported anime records")
	return nil
}
