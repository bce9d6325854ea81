package service

import (
	"context"
	"time"

	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	geodomain "shipping-quoter/internal/features/geocode/domain"
	"shipping-quoter/internal/features/pricing/domain"
	weatherports "shipping-quoter/internal/features/weather/ports"

	"go.uber.org/zap"
)

const clockLayout = "15:04"

// Modifier computes the dynamic multiplier for one local delivery offer from
// time-of-day, day-of-week and weather conditions. Every signal degrades to
// neutral: a quote is never blocked by a missing weather reading or a
// malformed surge window.
type Modifier struct {
	cfg     config.DynamicConfig
	periods []config.PeakPeriod
	weather weatherports.Provider
	logger  *zap.Logger
	now     func() time.Time
}

// NewModifier creates a Modifier. The weather provider may be nil, which
// disables the weather signal.
func NewModifier(cfg config.DynamicConfig, weather weatherports.Provider) *Modifier {
	return &Modifier{
		cfg:     cfg,
		periods: cfg.ParsePeakPeriods(),
		weather: weather,
		logger:  logger.Get(),
		now:     time.Now,
	}
}

// Evaluate returns the combined multiplier for a delivery to the given
// coordinates at the current time.
func (m *Modifier) Evaluate(ctx context.Context, destination geodomain.Coordinates) domain.Multiplier {
	if !m.cfg.Enabled {
		return domain.Neutral()
	}

	now := m.now()
	var components []domain.Component

	if peak := m.matchPeak(now); peak != nil {
		components = append(components, domain.Component{
			Reason: peak.Label,
			Factor: peak.Factor,
		})
	}

	if isWeekend(now) && m.cfg.WeekendFactor > 1.0 {
		components = append(components, domain.Component{
			Reason: "Fim de semana",
			Factor: m.cfg.WeekendFactor,
		})
	}

	if weather := m.weatherComponent(ctx, destination); weather != nil {
		components = append(components, *weather)
	}

	return domain.Combine(components, m.cfg.Ceiling)
}

// matchPeak returns the first configured window containing now. Windows do
// not stack: the first match wins. A window whose end precedes its start
// wraps past midnight ("22:00-01:00" covers 22:00 to 23:59 and 00:00 to
// 01:00).
func (m *Modifier) matchPeak(now time.Time) *config.PeakPeriod {
	clock := now.Format(clockLayout)
	for i := range m.periods {
		p := &m.periods[i]
		if p.Factor <= 1.0 {
			continue
		}
		if p.Start > p.End {
			if clock >= p.Start || clock <= p.End {
				return p
			}
			continue
		}
		if clock >= p.Start && clock <= p.End {
			return p
		}
	}
	return nil
}

func (m *Modifier) weatherComponent(ctx context.Context, destination geodomain.Coordinates) *domain.Component {
	if m.weather == nil || !m.weather.Configured() || destination.IsZero() {
		return nil
	}

	reading, err := m.weather.Current(ctx, destination)
	if err != nil {
		m.logger.Debug("Weather lookup failed, skipping signal", zap.Error(err))
		return nil
	}
	if reading == nil {
		return nil
	}

	switch {
	case reading.IsHeavyRain() && m.cfg.RainHeavyFactor > 1.0:
		return &domain.Component{Reason: "Chuva forte", Factor: m.cfg.RainHeavyFactor}
	case reading.IsLightRain() && m.cfg.RainLightFactor > 1.0:
		return &domain.Component{Reason: "Chuva", Factor: m.cfg.RainLightFactor}
	}
	return nil
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
