// Package seed fills a database with demo wardrobes, friendships and a running
// défi. It is meant for development databases only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/services"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
)

// Options controls how much data is generated
type Options struct {
	Users int
	// ItemsPerSlot is the number of tops, bottoms and footwear per user
	ItemsPerSlot int
}

// Result counts what was created
type Result struct {
	Users          int
	Items          int
	Ensembles      int
	Friendships    int
	Participations int
	Votes          int
	ChallengeID    uuid.UUID
}

var (
	weatherTags = []string{"pluie", "soleil", "vent", "neige", "nuageux"}
	warmth      = []string{"chaud", "tempéré", "froid"}
	names       = map[wardrobe.Category][]string{
		wardrobe.CategoryTop:      {"T-shirt", "Chemise", "Pull", "Sweat", "Veste"},
		wardrobe.CategoryBottom:   {"Jean", "Pantalon", "Short", "Jupe"},
		wardrobe.CategoryFootwear: {"Baskets", "Bottes", "Sandales", "Mocassins"},
	}
)

// Seeder writes demo data through the services so every business rule applies
type Seeder struct {
	repos postgres.RepositoryContainer
	svc   *services.Services
	faker *gofakeit.Faker
	log   *log.Logger
}

// New creates a seeder over repos. A non-zero seed makes the data reproducible.
func New(repos postgres.RepositoryContainer, seed int64) *Seeder {
	return &Seeder{
		repos: repos,
		svc:   services.New(services.Deps{Repos: repos}),
		faker: gofakeit.New(seed),
		log:   logger.WithContext("component", "seed"),
	}
}

// Run creates opts.Users profiles (the first one is an admin), their
// wardrobes and one ensemble each, befriends neighbours, then opens a défi
// where everyone submits and votes on the others.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 2 {
		return nil, fmt.Errorf("at least 2 users are required, got %d", opts.Users)
	}
	if opts.ItemsPerSlot < 1 {
		opts.ItemsPerSlot = 1
	}
	res := &Result{}

	users := make([]uuid.UUID, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		p := s.profile(i)
		if i == 0 {
			p.Role = profile.RoleAdmin
		}
		if err := s.repos.Profiles().Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile %d: %w", i, err)
		}
		users = append(users, p.ID)
		res.Users++
	}

	ensembles := make(map[uuid.UUID]uuid.UUID, len(users))
	for _, userID := range users {
		outfit := services.CreateEnsembleRequest{Name: s.faker.Adjective() + " " + s.faker.Color()}
		for _, slot := range wardrobe.Slots {
			for n := 0; n < opts.ItemsPerSlot; n++ {
				item, err := s.svc.Wardrobe.Create(ctx, userID, s.item(slot))
				if err != nil {
					return nil, fmt.Errorf("create item: %w", err)
				}
				res.Items++
				if n == 0 {
					setSlot(&outfit, slot, item.ID)
				}
			}
		}

		e, err := s.svc.Ensembles.Create(ctx, userID, outfit)
		if err != nil {
			return nil, fmt.Errorf("create ensemble: %w", err)
		}
		ensembles[userID] = e.ID
		res.Ensembles++
	}

	for i := 1; i < len(users); i++ {
		f, err := s.svc.Friends.SendRequest(ctx, users[i-1], services.FriendRequest{UserID: users[i].String()})
		if err != nil {
			return nil, fmt.Errorf("send friend request: %w", err)
		}
		if _, err := s.svc.Friends.Respond(ctx, users[i], f.ID, true); err != nil {
			return nil, fmt.Errorf("accept friend request: %w", err)
		}
		res.Friendships++
	}

	now := time.Now().UTC()
	defi, err := s.svc.Challenges.Create(ctx, users[0], services.CreateChallengeRequest{
		Title:       "Défi " + s.faker.Color(),
		Description: s.faker.Sentence(8),
		Theme:       s.faker.RandomString(weatherTags),
		StartsAt:    now.Add(-time.Hour),
		EndsAt:      now.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("create défi: %w", err)
	}
	res.ChallengeID = defi.ID

	var participations []uuid.UUID
	for _, userID := range users {
		p, err := s.svc.Challenges.Submit(ctx, userID, defi.ID, services.SubmitRequest{EnsembleID: ensembles[userID].String()})
		if err != nil {
			return nil, fmt.Errorf("submit participation: %w", err)
		}
		participations = append(participations, p.ID)
		res.Participations++
	}

	for i, voterID := range users {
		for j, participationID := range participations {
			if i == j {
				continue
			}
			value := "up"
			if s.faker.Number(0, 3) == 0 {
				value = "down"
			}
			if _, err := s.svc.Votes.VoteParticipation(ctx, voterID, participationID, services.VoteRequest{Value: value}); err != nil {
				return nil, fmt.Errorf("vote: %w", err)
			}
			res.Votes++
		}
	}

	s.log.Info("Seed completed",
		"users", res.Users,
		"items", res.Items,
		"ensembles", res.Ensembles,
		"votes", res.Votes,
		"challenge_id", res.ChallengeID)
	return res, nil
}

func (s *Seeder) profile(i int) *profile.Profile {
	username := strings.ToLower(s.faker.Username())
	email := fmt.Sprintf("%s.%d@%s", username, i, s.faker.DomainName())
	return profile.NewProfile(uuid.New(), email, username)
}

func (s *Seeder) item(slot wardrobe.Category) services.ItemRequest {
	return services.ItemRequest{
		Name:                   s.faker.RandomString(names[slot]) + " " + s.faker.Color(),
		Description:            s.faker.Sentence(6),
		Category:               string(slot),
		Color:                  strings.ToLower(s.faker.Color()),
		Brand:                  s.faker.Company(),
		TemperatureSuitability: s.faker.RandomString(warmth),
		WeatherTags:            []string{s.faker.RandomString(weatherTags)},
	}
}

func setSlot(req *services.CreateEnsembleRequest, slot wardrobe.Category, id uuid.UUID) {
	switch slot {
	case wardrobe.CategoryTop:
		req.TopID = id.String()
	case wardrobe.CategoryBottom:
		req.BottomID = id.String()
	case wardrobe.CategoryFootwear:
		req.FootwearID = id.String()
	}
}
