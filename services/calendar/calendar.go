package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	calendarApiHostFlag   = "calendar-api-host"
	calendarApiPortFlag   = "calendar-api-port"
	calendarApiSecureFlag = "calendar-api-secure"
	calendarApiKeyFlag    = "calendar-api-key"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   calendarApiHostFlag,
			Usage:  "calendar api host",
			EnvVar: "CALENDAR_API_HOST",
		},
		cli.IntFlag{
			Name:   calendarApiPortFlag,
			Usage:  "calendar api port",
			Value:  443,
			EnvVar: "CALENDAR_API_PORT",
		},
		cli.BoolTFlag{
			Name:   calendarApiSecureFlag,
			Usage:  "calendar api secure (https)",
			EnvVar: "CALENDAR_API_SECURE",
		},
		cli.StringFlag{
			Name:   calendarApiKeyFlag,
			Usage:  "calendar api key",
			EnvVar: "CALENDAR_API_KEY",
		},
	)
}

// Api talks to the external calendar event store. Events are best-effort
// external state, the tracker only keeps their opaque ids.
type Api struct {
	url            string
	cl             *http.Client
	prepareRequest func(r *http.Request) (*http.Request, error)
}

// New returns nil when no calendar endpoint is configured, records then
// keep a null event id.
func New(c *cli.Context, cl *http.Client) *Api {
	host := c.String(calendarApiHostFlag)
	if host == "" {
		return nil
	}
	port := c.Int(calendarApiPortFlag)
	secure := c.BoolT(calendarApiSecureFlag)
	key := c.String(calendarApiKeyFlag)
	protocol := "http"
	if secure {
		protocol = "https"
	}
	u := fmt.Sprintf("%v://%v:%v", protocol, host, port)
	prepareRequest := func(r *http.Request) (*http.Request, error) {
		if key != "" {
			r.Header.Set("X-Api-Key", key)
		}
		return r, nil
	}
	log.Infof("calendar api endpoint %v", u)
	return &Api{
		url:            u,
		cl:             cl,
		prepareRequest: prepareRequest,
	}
}

type addEventRequest struct {
	Name                  string `json:"name"`
	FirstEpisodeTimestamp int64  `json:"firstEpisodeTimestamp"`
	CurrentEpisode        int    `json:"currentEpisode"`
	TotalEpisode          int    `json:"totalEpisode"`
}

type addEventResponse struct {
	EventID string `json:"eventId"`
}

// AddEvent schedules a recurring airing event and returns its id.
func (api *Api) AddEvent(ctx context.Context, name string, first int64, current, total int) (string, error) {
	body, err := json.Marshal(&addEventRequest{
		Name:                  name,
		FirstEpisodeTimestamp: first,
		CurrentEpisode:        current,
		TotalEpisode:          total,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal add event request")
	}
	req, err := http.NewRequestWithContext(ctx, "POST", api.url+"/events", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req, err = api.prepareRequest(req)
	if err != nil {
		return "", err
	}
	res, err := api.cl.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to add calendar event")
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(res.Body)
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", errors.Errorf("calendar api returned status %v", res.StatusCode)
	}
	var data addEventResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", errors.Wrap(err, "decode add event response")
	}
	if data.EventID == "" {
		return "", errors.New("calendar api returned empty event id")
	}
	return data.EventID, nil
}

// DeleteEvent removes an event by id. A missing event is not an error, the
// event store has no knowledge of the record pointing at it.
func (api *Api) DeleteEvent(ctx context.Context, eventID string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", api.url+"/events/"+eventID, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req, err = api.prepareRequest(req)
	if err != nil {
		return err
	}
	res, err := api.cl.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to delete calendar event")
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(res.Body)
	if res.StatusCode == http.StatusNotFound {
		log.WithField("event_id", eventID).Info("calendar event already gone")
		return nil
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusNoContent {
		return errors.Errorf("calendar api returned status %v", res.StatusCode)
	}
	return nil
}
