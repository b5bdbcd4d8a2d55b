package meet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
)

// DefaultBaseURL is the Google Meet REST endpoint
const DefaultBaseURL = "https://meet.googleapis.com/v2"

const (
	recordsByCodePageSize = 10
	recordsByTimePageSize = 25
	entriesPageSize       = 100
	defaultMaxPages       = 1000
)

// meetingCodePattern matches codes such as abc-defg-hij
var meetingCodePattern = regexp.MustCompile(`^[a-z]{3}-[a-z]{4}-[a-z]{3}$`)

// TokenProvider returns an HTTP client authorized for the Meet API
type TokenProvider interface {
	Client(ctx context.Context) (*http.Client, error)
}

// Client reads conference records and transcripts from Google Meet
type Client struct {
	provider TokenProvider
	baseURL  string
	maxPages int
	logger   *zap.Logger
}

var _ repositories.TranscriptSource = (*Client)(nil)

// NewClient creates a Meet client. An empty baseURL selects DefaultBaseURL.
func NewClient(provider TokenProvider, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: defaultMaxPages,
		logger:   logger,
	}
}

type conferenceRecord struct {
	Name      string    `json:"name"`
	Space     string    `json:"space"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type listConferenceRecordsResponse struct {
	ConferenceRecords []conferenceRecord `json:"conferenceRecords"`
	NextPageToken     string             `json:"nextPageToken"`
}

type transcript struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type listTranscriptsResponse struct {
	Transcripts   []transcript `json:"transcripts"`
	NextPageToken string       `json:"nextPageToken"`
}

type speaker struct {
	DisplayName              string `json:"displayName"`
	ObfuscatedExternalUserID string `json:"obfuscatedExternalUserId"`
}

type transcriptEntry struct {
	Name        string    `json:"name"`
	Participant string    `json:"participant"`
	Speaker     *speaker  `json:"speaker,omitempty"`
	Text        string    `json:"text"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

type listEntriesResponse struct {
	TranscriptEntries []transcriptEntry `json:"transcriptEntries"`
	NextPageToken     string            `json:"nextPageToken"`
}

type participant struct {
	SignedinUser  *speaker `json:"signedinUser,omitempty"`
	AnonymousUser *speaker `json:"anonymousUser,omitempty"`
	PhoneUser     *speaker `json:"phoneUser,omitempty"`
}

// FindConferenceRecords lists the records matching a meeting code or a start time window
func (c *Client) FindConferenceRecords(ctx context.Context, q repositories.ConferenceQuery) ([]entities.ConferenceRecord, error) {
	params := url.Values{}
	switch {
	case q.MeetingCode != "":
		code := strings.ToLower(strings.TrimSpace(q.MeetingCode))
		if !meetingCodePattern.MatchString(code) {
			return nil, apperrors.ErrInvalidArgument("meeting code must look like abc-defg-hij").
				WithDetail("meeting_code", q.MeetingCode)
		}
		params.Set("filter", fmt.Sprintf(`space.meeting_code = "%s"`, code))
		params.Set("pageSize", fmt.Sprint(recordsByCodePageSize))
	case !q.Start.IsZero() && !q.End.IsZero():
		params.Set("filter", fmt.Sprintf(`start_time>="%s" AND start_time<="%s"`,
			q.Start.UTC().Format(time.RFC3339), q.End.UTC().Format(time.RFC3339)))
		params.Set("pageSize", fmt.Sprint(recordsByTimePageSize))
	default:
		return nil, apperrors.ErrInvalidArgument("meeting code or start and end time is required")
	}

	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	var records []entities.ConferenceRecord
	err = c.paginate(ctx, client, "find conference records", "/conferenceRecords", params, func(body []byte) (string, error) {
		var page listConferenceRecordsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return "", err
		}
		for _, r := range page.ConferenceRecords {
			records = append(records, entities.ConferenceRecord(r))
		}
		return page.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("conference records found", zap.Int("count", len(records)))
	return records, nil
}

// ListTranscripts lists the transcripts of a conference record
func (c *Client) ListTranscripts(ctx context.Context, conferenceRecordID string) ([]entities.TranscriptInfo, error) {
	if conferenceRecordID == "" {
		return nil, apperrors.ErrInvalidArgument("conference record id is required")
	}
	name := conferenceRecordID
	if !strings.HasPrefix(name, "conferenceRecords/") {
		name = "conferenceRecords/" + name
	}

	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	var transcripts []entities.TranscriptInfo
	err = c.paginate(ctx, client, "list transcripts", "/"+name+"/transcripts", url.Values{}, func(body []byte) (string, error) {
		var page listTranscriptsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return "", err
		}
		for _, t := range page.Transcripts {
			transcripts = append(transcripts, entities.TranscriptInfo(t))
		}
		return page.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}

// FetchSegments reads every entry of a transcript and resolves speaker names
func (c *Client) FetchSegments(ctx context.Context, transcriptName string) ([]entities.TranscriptSegment, error) {
	if transcriptName == "" {
		return nil, apperrors.ErrInvalidArgument("transcript name is required")
	}

	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	var entries []transcriptEntry
	params := url.Values{}
	params.Set("pageSize", fmt.Sprint(entriesPageSize))
	err = c.paginate(ctx, client, "fetch transcript entries", "/"+transcriptName+"/entries", params, func(body []byte) (string, error) {
		var page listEntriesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return "", err
		}
		entries = append(entries, page.TranscriptEntries...)
		return page.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	segments := make([]entities.TranscriptSegment, 0, len(entries))
	for _, e := range entries {
		segments = append(segments, entities.TranscriptSegment{
			Speaker:   c.speakerName(ctx, client, e, names),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Text:      e.Text,
		})
	}

	c.logger.Info("transcript fetched",
		zap.String("transcript", transcriptName),
		zap.Int("entries", len(segments)),
	)
	return segments, nil
}

// speakerName prefers an inline speaker, then the participant resource.
// Lookup failures fall back to the default label.
func (c *Client) speakerName(ctx context.Context, client *http.Client, e transcriptEntry, names map[string]string) string {
	if name := e.Speaker.label(); name != "" {
		return name
	}
	if e.Participant == "" {
		return entities.DefaultSpeaker
	}
	if name, ok := names[e.Participant]; ok {
		return name
	}

	name := entities.DefaultSpeaker
	body, err := c.get(ctx, client, "/"+e.Participant, nil)
	if err != nil {
		c.logger.Warn("participant lookup failed", zap.String("participant", e.Participant), zap.Error(err))
	} else {
		var p participant
		if err := json.Unmarshal(body, &p); err == nil {
			for _, s := range []*speaker{p.SignedinUser, p.AnonymousUser, p.PhoneUser} {
				if label := s.label(); label != "" {
					name = label
					break
				}
			}
		}
	}
	names[e.Participant] = name
	return name
}

func (s *speaker) label() string {
	if s == nil {
		return ""
	}
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ObfuscatedExternalUserID
}

func (c *Client) paginate(ctx context.Context, client *http.Client, operation, path string, params url.Values, page func([]byte) (string, error)) error {
	for i := 0; i < c.maxPages; i++ {
		body, err := c.get(ctx, client, path, params)
		if err != nil {
			return apperrors.ErrTranscriptSourceFailed(operation, err)
		}
		next, err := page(body)
		if err != nil {
			return apperrors.ErrTranscriptSourceFailed(operation, fmt.Errorf("failed to decode response: %w", err))
		}
		if next == "" {
			return nil
		}
		params.Set("pageToken", next)
	}
	c.logger.Warn("page limit reached", zap.String("operation", operation), zap.Int("pages", c.maxPages))
	return apperrors.ErrTranscriptSourceFailed(operation, fmt.Errorf("more than %d pages", c.maxPages))
}

func (c *Client) get(ctx context.Context, client *http.Client, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meet api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
