package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/i474232898/weather-dependencies/internal/dispatch"
	"github.com/i474232898/weather-dependencies/internal/httpclient"
	"github.com/i474232898/weather-dependencies/internal/stream"
)

// IPConfig configures the live provider.
type IPConfig struct {
	// URL of an ip-api.com style endpoint returning {status, lat, lon, message}.
	URL string
	// Initial authorization status at startup.
	Initial AuthorizationStatus
	// Grant decides how a pending authorization request is answered.
	Grant bool
	// Static, when set, is reported instead of performing a lookup.
	Static  *Coordinate
	Timeout time.Duration
}

// IPProvider is the live Provider for a headless service. Authorization is an
// operator policy; positions come from IP geolocation.
type IPProvider struct {
	cfg     IPConfig
	client  *httpclient.Client
	queue   dispatch.Queue
	subject *stream.Subject[Event]

	mu     sync.Mutex
	status AuthorizationStatus
}

func NewIPProvider(cfg IPConfig, client *httpclient.Client, queue dispatch.Queue) *IPProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &IPProvider{
		cfg:     cfg,
		client:  client,
		queue:   queue,
		subject: stream.NewSubject[Event](),
		status:  cfg.Initial,
	}
}

func (p *IPProvider) AuthorizationStatus() AuthorizationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *IPProvider) RequestAuthorization() {
	p.mu.Lock()
	if p.status == NotDetermined {
		if p.cfg.Grant {
			p.status = AuthorizedWhenInUse
		} else {
			p.status = Denied
		}
	}
	status := p.status
	p.mu.Unlock()

	log.Printf("INFO: location: authorization is %s", status)
	p.queue.Post(func() { p.subject.Send(AuthorizationChanged(status)) })
}

func (p *IPProvider) RequestLocation() {
	if p.cfg.Static != nil {
		coord := *p.cfg.Static
		p.queue.Post(func() { p.subject.Send(LocationUpdated(coord)) })
		return
	}

	var (
		coord Coordinate
		err   error
	)
	p.queue.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
		defer cancel()
		coord, err = p.Lookup(ctx)
	}, func() {
		if err != nil {
			log.Printf("ERROR: location: lookup failed: %v", err)
			p.subject.Send(Failed(err))
			return
		}
		p.subject.Send(LocationUpdated(coord))
	})
}

func (p *IPProvider) Events(fn func(Event)) stream.Cancel {
	return p.subject.Subscribe(fn)
}

// Lookup resolves the caller's position from its public IP.
func (p *IPProvider) Lookup(ctx context.Context) (Coordinate, error) {
	resp, err := p.client.Get(ctx, p.cfg.URL)
	if err != nil {
		return Coordinate{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinate{}, fmt.Errorf("decode ip location: %w", err)
	}
	if payload.Status != "success" {
		return Coordinate{}, fmt.Errorf("%w: %s", ErrLocationUnknown, payload.Message)
	}

	return Coordinate{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
