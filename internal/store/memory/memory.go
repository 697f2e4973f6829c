package memory

import (
	"sync"

	"go.uber.org/zap"
	"livefeed/internal/model"
)

type Store struct {
	mu          sync.Mutex
	follows     []model.Follow
	streams     []model.LiveStream
	ledger      []model.LedgerEntry
	conversions []model.DiamondConversion
	profiles    map[string]model.Profile
	gifts       map[string]model.Gift
	reactions   map[model.Reaction]struct{}
	comments    map[string]model.Comment
	log         *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		profiles:  make(map[string]model.Profile),
		gifts:     make(map[string]model.Gift),
		reactions: make(map[model.Reaction]struct{}),
		comments:  make(map[string]model.Comment),
		log:       logger,
	}
}

func (s *Store) AddFollow(follow model.Follow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follows = append(s.follows, follow)
}

func (s *Store) AddLiveStream(stream model.LiveStream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams = append(s.streams, stream)
}

func (s *Store) AddLedgerEntry(entry model.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, entry)
}

func (s *Store) AddDiamondConversion(conversion model.DiamondConversion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversions = append(s.conversions, conversion)
}

func (s *Store) AddProfile(profile model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
}

func (s *Store) AddGift(gift model.Gift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gifts[gift.ID] = gift
}
