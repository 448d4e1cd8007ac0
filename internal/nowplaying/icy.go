package nowplaying

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// defaultUA is intentionally generic: ICY sources often reject exotic user
// agents, so we mimic a simple desktop client.
var defaultUA = "RadioStream/1.0 (+https://local)"

// maxRedirects bounds manual redirect following so icy-metaint survives hops.
const maxRedirects = 3

var errNoICY = errors.New("icy metadata unavailable")

// icyStrategy connects to the stream URL and reads ICY metadata blocks
// interleaved with the audio payload.
type icyStrategy struct {
	client *http.Client
	log    zerolog.Logger
}

func newICYStrategy(client *http.Client, log zerolog.Logger) *icyStrategy {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				ForceAttemptHTTP2: false,
				Proxy:             http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   7 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 7 * time.Second,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &icyStrategy{client: client, log: log}
}

// Watch runs synchronously until ctx is cancelled or the stream fails. It
// returns errNoICY when the server does not interleave metadata.
func (s *icyStrategy) Watch(ctx context.Context, streamURL string, onTrack func(Track)) error {
	return s.watch(ctx, streamURL, onTrack, 0)
}

func (s *icyStrategy) watch(ctx context.Context, streamURL string, onTrack func(Track), hops int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", defaultUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		loc := resp.Header.Get("Location")
		if loc == "" {
			return fmt.Errorf("redirect without location")
		}
		if hops >= maxRedirects {
			return fmt.Errorf("too many redirects")
		}
		next, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return fmt.Errorf("bad redirect location %q: %w", loc, err)
		}
		return s.watch(ctx, next.String(), onTrack, hops+1)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("icy stream status %d", resp.StatusCode)
	}

	metaInt, err := strconv.Atoi(resp.Header.Get("icy-metaint"))
	if err != nil || metaInt <= 0 {
		return errNoICY
	}
	if name := strings.TrimSpace(resp.Header.Get("icy-name")); name != "" {
		s.log.Debug().Str("station", html.UnescapeString(name)).Msg("icy station")
	}

	reader := bufio.NewReader(resp.Body)
	last := ""
	for {
		title, err := nextMetaBlock(reader, metaInt)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if title == "" || title == last {
			continue
		}
		last = title
		if t := ParseTrack(title); !t.IsZero() {
			onTrack(t)
		}
	}
}

// nextMetaBlock skips metaInt bytes of audio and decodes the following
// metadata frame. Empty frames yield "".
func nextMetaBlock(r *bufio.Reader, metaInt int) (string, error) {
	if _, err := r.Discard(metaInt); err != nil {
		return "", err
	}
	lb, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	if lb == 0 {
		return "", nil
	}
	meta := make([]byte, int(lb)*16)
	if _, err := io.ReadFull(r, meta); err != nil {
		return "", err
	}
	return extractStreamTitle(string(meta)), nil
}

// extractStreamTitle parses an ICY metadata block, extracting StreamTitle.
// Quoted values may contain the quote character as long as it is not followed
// by ";key=" or the end of the block.
func extractStreamTitle(meta string) string {
	meta = strings.TrimRight(meta, "\x00")
	idx := strings.Index(meta, "StreamTitle=")
	if idx < 0 {
		return ""
	}
	meta = strings.TrimSpace(meta[idx+len("StreamTitle="):])
	if meta == "" {
		return ""
	}

	quote := byte(0)
	if meta[0] == '\'' || meta[0] == '"' {
		quote = meta[0]
		meta = meta[1:]
	}
	if quote != 0 {
		end := -1
		for i := 0; i < len(meta); i++ {
			if meta[i] != quote {
				continue
			}
			j := i + 1
			for j < len(meta) && (meta[j] == ' ' || meta[j] == '\t') {
				j++
			}
			if j >= len(meta) {
				end = i
				break
			}
			if meta[j] == ';' && (j+1 >= len(meta) || strings.Contains(meta[j+1:], "=")) {
				end = i
				break
			}
		}
		if end < 0 {
			end = strings.LastIndexByte(meta, quote)
		}
		if end >= 0 {
			meta = meta[:end]
		}
	} else if end := strings.IndexByte(meta, ';'); end >= 0 {
		meta = meta[:end]
	}
	return html.UnescapeString(strings.TrimSpace(meta))
}
