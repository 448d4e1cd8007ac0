package nowplaying

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StatusPollInterval is the refresh period for Icecast status endpoints.
const StatusPollInterval = 10 * time.Second

var errNoStatus = errors.New("status-json unavailable")

// statusJSONStrategy polls Icecast-style /status-json.xsl endpoints on the
// same host as the stream, parsing track info from the response.
type statusJSONStrategy struct {
	client   *http.Client
	log      zerolog.Logger
	interval time.Duration
}

func newStatusJSONStrategy(client *http.Client, log zerolog.Logger) *statusJSONStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &statusJSONStrategy{client: client, log: log, interval: StatusPollInterval}
}

// Watch sends the first update after a successful poll and keeps refreshing
// until ctx is cancelled. An empty apiURL is derived from streamURL.
func (s *statusJSONStrategy) Watch(ctx context.Context, streamURL, apiURL string, onTrack func(Track)) error {
	if strings.TrimSpace(apiURL) == "" {
		var err error
		apiURL, err = buildStatusURL(streamURL)
		if err != nil {
			return err
		}
	}
	mount := mountOf(streamURL)
	title, ok := s.pollOnce(ctx, apiURL, mount)
	if !ok {
		return errNoStatus
	}
	s.log.Debug().Str("endpoint", apiURL).Msg("status-json metadata resolved")
	last := title
	onTrack(ParseTrack(title))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			title, ok := s.pollOnce(ctx, apiURL, mount)
			if ok && title != last {
				last = title
				onTrack(ParseTrack(title))
			}
		}
	}
}

// pollOnce performs a single request and returns the title of the source
// matching mount, or of the first source with a title.
func (s *statusJSONStrategy) pollOnce(ctx context.Context, apiURL, mount string) (string, bool) {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", defaultUA)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}
	var st iceStats
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&st); err != nil {
		s.log.Debug().Err(err).Str("endpoint", apiURL).Msg("status-json decode failed")
		return "", false
	}
	sources := extractSources(st.IceStats.Source)
	for _, src := range sources {
		if mount != "" && strings.HasSuffix(src.ListenURL, mount) && strings.TrimSpace(src.Title) != "" {
			return src.Title, true
		}
	}
	for _, src := range sources {
		if strings.TrimSpace(src.Title) != "" {
			return src.Title, true
		}
	}
	return "", false
}

// buildStatusURL converts a stream URL ("/live/rock") into its sibling JSON
// endpoint ("/live/status-json.xsl").
func buildStatusURL(streamURL string) (string, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return "", err
	}
	u.Path = path.Join("/", path.Dir(u.Path), "status-json.xsl")
	u.RawQuery = ""
	return u.String(), nil
}

func mountOf(streamURL string) string {
	u, err := url.Parse(streamURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	return u.Path
}

type iceStats struct {
	IceStats struct {
		Source json.RawMessage `json:"source"`
	} `json:"icestats"`
}

type iceSource struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	ListenURL string `json:"listenurl"`
}

// extractSources normalizes Icecast's source field which is a single object
// or an array depending on the number of mounts.
func extractSources(raw json.RawMessage) []iceSource {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil
	}
	var list []iceSource
	if raw[0] == '[' {
		if json.Unmarshal(raw, &list) != nil {
			return nil
		}
	} else {
		var one iceSource
		if json.Unmarshal(raw, &one) != nil {
			return nil
		}
		list = []iceSource{one}
	}
	for i := range list {
		if list[i].Artist != "" && list[i].Title != "" && !strings.Contains(list[i].Title, " - ") {
			list[i].Title = list[i].Artist + " - " + list[i].Title
		}
	}
	return list
}
