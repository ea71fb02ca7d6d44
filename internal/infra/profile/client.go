package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"sorting-hat-service/internal/domain"
)

const (
	DefaultBaseURL  = "https://maraudersworld.onrender.com"
	DefaultPath     = "/game/profile/"
	DefaultTokenKey = "accessToken"

	maxBodyBytes = 1 << 20
)

// CredentialStore hands out the bearer token for a session. ok is false when none is stored.
type CredentialStore interface {
	Get(ctx context.Context, sessionID, key string) (token string, ok bool, err error)
}

// Options configures a Client; zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	Path       string
	TokenKey   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client records house assignments on the remote player profile. Every call
// makes at most one request and never retries.
type Client struct {
	endpoint    string
	tokenKey    string
	httpClient  *http.Client
	credentials CredentialStore
}

func NewClient(credentials CredentialStore, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.TokenKey == "" {
		opts.TokenKey = DefaultTokenKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:    strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(opts.Path, "/"),
		tokenKey:    opts.TokenKey,
		httpClient:  httpClient,
		credentials: credentials,
	}
}

type assignRequest struct {
	House string `json:"house"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type profileResponse struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	House            *string  `json:"house"`
	HouseDisplay     *string  `json:"house_display"`
	Level            int      `json:"level"`
	XP               int      `json:"xp"`
	AvatarURL        *string  `json:"avatar_url"`
	CurrentLatitude  *float64 `json:"current_latitude"`
	CurrentLongitude *float64 `json:"current_longitude"`
	LastSeen         string   `json:"last_seen"`
}

// Assign patches the user's profile with house. Failures are *domain.AssignmentError.
func (c *Client) Assign(ctx context.Context, user domain.User, house domain.House) (domain.Profile, error) {
	profile, err := c.assign(ctx, user, house)
	if err != nil {
		var ae *domain.AssignmentError
		if errors.As(err, &ae) && ae.Err != nil {
			log.Printf("assign %s to user %s: %v (%v)", house, user.ID, err, ae.Err)
		} else {
			log.Printf("assign %s to user %s: %v", house, user.ID, err)
		}
	}
	return profile, err
}

func (c *Client) assign(ctx context.Context, user domain.User, house domain.House) (domain.Profile, error) {
	token, ok, err := c.credentials.Get(ctx, user.SessionID, c.tokenKey)
	if err != nil || !ok {
		ae := domain.Unauthenticated()
		ae.Err = err
		return domain.Profile{}, ae
	}

	body, err := json.Marshal(assignRequest{House: house.Wire()})
	if err != nil {
		return domain.Profile{}, domain.TransportFailure(fmt.Errorf("marshal: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Profile{}, domain.TransportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Profile{}, domain.TransportFailure(fmt.Errorf("http: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Profile{}, domain.TransportFailure(fmt.Errorf("read: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		return domain.Profile{}, domain.RemoteRejected(resp.StatusCode, apiErr.Detail)
	}

	var pr profileResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return domain.Profile{}, domain.TransportFailure(fmt.Errorf("unmarshal: %w", err))
	}
	return pr.toDomain(), nil
}

func (p profileResponse) toDomain() domain.Profile {
	out := domain.Profile{
		ID:               p.ID,
		Username:         p.Username,
		Email:            p.Email,
		Level:            p.Level,
		XP:               p.XP,
		CurrentLatitude:  p.CurrentLatitude,
		CurrentLongitude: p.CurrentLongitude,
		LastSeen:         p.LastSeen,
	}
	if p.House != nil {
		if h, err := domain.ParseHouse(*p.House); err == nil {
			out.House = h
		} else {
			out.House = domain.House(*p.House)
		}
	}
	if p.HouseDisplay != nil {
		out.HouseDisplay = *p.HouseDisplay
	}
	if p.AvatarURL != nil {
		out.AvatarURL = *p.AvatarURL
	}
	return out
}
