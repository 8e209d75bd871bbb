// Package seed installs the demo catalog and accounts the first time the
// service starts against an empty or outdated store.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/seatmap"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

// DefaultVersion is the data version written by this build.
const DefaultVersion = "1.1.0"

const (
	days              = 7
	sessionChance     = 0.7
	occupancyFraction = 0.1
)

// Options tunes Ensure.  Zero values fall back to sensible defaults.
type Options struct {
	Version    string
	Rand       *rand.Rand
	Clock      clockwork.Clock
	BcryptCost int
	Logger     *zap.Logger
}

func (o *Options) defaults() {
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(o.Clock.Now().UnixNano()))
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Ensure rewrites every collection with demo data when the stored seed
// version differs from opts.Version.  It reports whether it did so.
func Ensure(ctx context.Context, kv storage.Store, opts Options) (bool, error) {
	opts.defaults()

	var current string
	if _, err := storage.GetJSON(ctx, kv, storage.KeySeedVersion, &current); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if current == opts.Version {
		return false, nil
	}
	opts.Logger.Info("seeding demo data", zap.String("from", current), zap.String("to", opts.Version))

	if err := kv.Remove(ctx, storage.CollectionKeys...); err != nil {
		return false, fmt.Errorf("seed: clear: %w", err)
	}

	seedUsers, err := buildUsers(opts)
	if err != nil {
		return false, err
	}
	sessions := buildSessions(opts)

	b := storage.NewBatch()
	for key, v := range map[string]any{
		storage.KeyUsers:       seedUsers,
		storage.KeyMovies:      movies,
		storage.KeyCinemas:     cinemas,
		storage.KeyRooms:       rooms,
		storage.KeySessions:    sessions,
		storage.KeyOrders:      []model.Order{},
		storage.KeySeedVersion: opts.Version,
	} {
		if err := b.Put(key, v); err != nil {
			return false, fmt.Errorf("seed: %w", err)
		}
	}
	if err := b.Commit(ctx, kv); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	opts.Logger.Info("seed complete",
		zap.Int("movies", len(movies)),
		zap.Int("cinemas", len(cinemas)),
		zap.Int("sessions", len(sessions)),
	)
	return true, nil
}

func buildUsers(opts Options) ([]model.User, error) {
	hash, err := utils.HashPassword(DemoPassword, opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}
	now := opts.Clock.Now().UTC()
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, model.User{
			ID:        u.id,
			Name:      u.name,
			Email:     u.email,
			Password:  hash,
			Role:      u.role,
			CreatedAt: now,
		})
	}
	return out, nil
}

// buildSessions schedules every movie in every room for the next week,
// keeping each slot with probability sessionChance.
func buildSessions(opts Options) []model.Session {
	var (
		out   []model.Session
		next  = 1
		today = opts.Clock.Now().UTC()
	)
	for day := 0; day < days; day++ {
		date := today.AddDate(0, 0, day).Format(time.DateOnly)
		for _, m := range movies {
			for _, r := range rooms {
				for _, tm := range showtimes {
					if opts.Rand.Float64() >= sessionChance {
						continue
					}
					out = append(out, model.Session{
						ID:            strconv.Itoa(next),
						MovieID:       m.ID,
						CinemaID:      r.CinemaID,
						RoomID:        r.ID,
						Date:          date,
						Time:          tm,
						BasePrice:     BasePrice(r.Type),
						OccupiedSeats: randomOccupancy(opts.Rand, r),
						IsActive:      true,
					})
					next++
				}
			}
		}
	}
	return out
}

// BasePrice is the full ticket price for a room type.
func BasePrice(t model.RoomType) decimal.Decimal {
	switch t {
	case model.RoomIMAX:
		return decimal.NewFromInt(45)
	case model.RoomVIP:
		return decimal.NewFromInt(55)
	case model.Room3D:
		return decimal.NewFromInt(35)
	default:
		return decimal.NewFromInt(30)
	}
}

// randomOccupancy draws about a tenth of the room's seats.  Repeated
// draws are dropped, so the result can be slightly smaller.
func randomOccupancy(rnd *rand.Rand, r model.Room) []string {
	draws := int(float64(r.TotalSeats) * occupancyFraction)
	seen := make(map[string]struct{}, draws)
	out := make([]string, 0, draws)
	for i := 0; i < draws; i++ {
		id := seatmap.SeatID(rnd.Intn(r.Rows), rnd.Intn(r.Columns)+1)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
