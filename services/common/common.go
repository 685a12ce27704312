package common

import (
	"time"

	"github.com/urfave/cli"
)

var (
	TimeLocationFlag = "time-location"
	DomainFlag       = "domain"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	f = append(f,
		cli.StringFlag{
			Name:   TimeLocationFlag,
			Usage:  "IANA time zone used for weekday and clock-time derivations",
			Value:  "Local",
			EnvVar: "TIME_LOCATION",
		},
		cli.StringFlag{
			Name:   DomainFlag,
			Usage:  "domain",
			Value:  "http://localhost:8080",
			EnvVar: "DOMAIN",
		},
	)

	return f
}

// GetDomain returns the public base URL of this instance, export documents
// carry it as their source.
func GetDomain(c *cli.Context) string {
	return c.String(DomainFlag)
}

// GetLocation resolves the configured time zone. Every derivation in the
// app must use this single location, timestamps themselves stay in epoch
// seconds.
func GetLocation(c *cli.Context) (*time.Location, error) {
	name := c.String(TimeLocationFlag)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
