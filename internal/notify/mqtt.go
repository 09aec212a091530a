package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/weather"
)

const publishTimeout = 5 * time.Second

// Config selects the broker and the topic prefix.
type Config struct {
	Broker   string // e.g. tcp://localhost:1883
	Topic    string
	ClientID string
}

// Publisher sends a conditions summary to MQTT for every refreshed forecast.
type Publisher struct {
	client    mqtt.Client
	cfg       Config
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool
	now       func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

var _ weather.Notifier = (*Publisher)(nil)

func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	p := &Publisher{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		p.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = mqtt.NewClient(opts)
	return p
}

// Connect waits for the initial connection, respecting ctx and Disconnect.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher stopped")
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return fmt.Errorf("publisher stopped")
		default:
		}
	}
}

// Publish sends the summary of f, retained, so late subscribers see the
// current conditions.
func (p *Publisher) Publish(ctx context.Context, f weather.Forecast) error {
	if !p.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	topic, data, err := Message(p.cfg.Topic, f, p.now())
	if err != nil {
		return err
	}

	token := p.client.Publish(topic, 1, true, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish conditions: %w", err)
	}

	p.logger.Debug("published conditions", "topic", topic, "seq", f.Seq)
	return nil
}

// IsConnected returns whether the client is connected.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Disconnect stops the publisher and closes the MQTT connection. It is safe
// to call more than once.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.setConnected(false)
	p.logger.Info("mqtt disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

// Summary is the retained message published per location.
type Summary struct {
	Location  weather.Location `json:"location"`
	Seq       uint64           `json:"seq"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Hour      int              `json:"hour"`
	Time      *time.Time       `json:"time,omitempty"`
	Ratings   []MetricRating   `json:"ratings"`
}

// MetricRating is one gauge of the summary. Rating and Class are omitted when
// the sample is unknown.
type MetricRating struct {
	Metric     conditions.Metric `json:"metric"`
	Rating     *float64          `json:"rating,omitempty"`
	Class      conditions.Class  `json:"class,omitempty"`
	Descriptor string            `json:"descriptor,omitempty"`
}

// Message builds the topic and payload for f. The summarised hour is the one
// containing now, or the first hour when now lies outside the forecast.
func Message(prefix string, f weather.Forecast, now time.Time) (string, []byte, error) {
	hour := currentHour(f.Hourly, now)
	s := Summary{
		Location:  f.Location,
		Seq:       f.Seq,
		FetchedAt: f.FetchedAt,
		Hour:      hour,
	}

	if f.Hourly.Len() > 0 {
		view, err := weather.BuildHourView(f, hour, conditions.UnitsMetric)
		if err != nil {
			return "", nil, err
		}
		s.Time = view.Time
		for _, g := range view.Gauges {
			mr := MetricRating{Metric: g.Metric}
			if g.Known {
				r := g.Rating
				mr.Rating = &r
				mr.Class = g.Class
				mr.Descriptor = g.Descriptor
			}
			s.Ratings = append(s.Ratings, mr)
		}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return "", nil, fmt.Errorf("marshal conditions: %w", err)
	}
	return Topic(prefix, f.Location), data, nil
}

// Topic is prefix/lat,lon for a location.
func Topic(prefix string, loc weather.Location) string {
	return strings.TrimSuffix(prefix, "/") + "/" + loc.Key()
}

func currentHour(s conditions.HourlySeries, now time.Time) int {
	for i := 0; i < s.Len(); i++ {
		t, ok := s.TimeAt(i)
		if !ok {
			continue
		}
		if !now.Before(t) && now.Before(t.Add(time.Hour)) {
			return i
		}
	}
	return 0
}
