package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/flashlearn/mooc-service/internal/models"
	"go.uber.org/zap"
)

// memStore keeps every table in memory so services can be tested end to end
type memStore struct {
	moocs         map[int]models.Mooc
	moocDecks     map[int][]models.MoocDeck
	decks         map[int]models.Deck
	cards         map[int]models.Card
	classes       map[int]models.ClassInfo
	members       map[int][]int
	enrollments   map[int]models.EnrolledUser
	overrides     map[string]bool
	notifications []models.Notification
	nextID        int
	failOn        map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		moocs:       make(map[int]models.Mooc),
		moocDecks:   make(map[int][]models.MoocDeck),
		decks:       make(map[int]models.Deck),
		cards:       make(map[int]models.Card),
		classes:     make(map[int]models.ClassInfo),
		members:     make(map[int][]int),
		enrollments: make(map[int]models.EnrolledUser),
		overrides:   make(map[string]bool),
		nextID:      100,
		failOn:      make(map[string]error),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.moocs {
		c.moocs[k] = v
	}
	for k, v := range s.moocDecks {
		c.moocDecks[k] = append([]models.MoocDeck(nil), v...)
	}
	for k, v := range s.decks {
		c.decks[k] = v
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.classes {
		c.classes[k] = v
	}
	for k, v := range s.members {
		c.members[k] = append([]int(nil), v...)
	}
	for k, v := range s.enrollments {
		v.DeckProgress = append([]models.DeckProgress{}, v.DeckProgress...)
		c.enrollments[k] = v
	}
	for k, v := range s.overrides {
		c.overrides[k] = v
	}
	c.notifications = append(c.notifications, s.notifications...)
	c.nextID = s.nextID
	c.failOn = s.failOn
	return c
}

// addDeck stores a deck with cards and returns its id
func (s *memStore) addDeck(ownerID int, title string, status models.PublicStatus, pointsRequired, cards int) int {
	id := s.id()
	s.decks[id] = models.Deck{ID: id, OwnerID: ownerID, Title: title, PublicStatus: status, PointsRequired: pointsRequired, CardCount: cards}
	for i := 0; i < cards; i++ {
		cardID := s.id()
		s.cards[cardID] = models.Card{ID: cardID, DeckID: id, Front: fmt.Sprintf("front %d", i), Back: fmt.Sprintf("back %d", i), Tags: []string{}}
	}
	return id
}

// addMooc stores a mooc linked to the given decks in order and returns its id
func (s *memStore) addMooc(ownerID int, classID *int, status models.PublicStatus, deckIDs ...int) int {
	id := s.id()
	s.moocs[id] = models.Mooc{ID: id, Title: fmt.Sprintf("Mooc %d", id), OwnerID: ownerID, ClassID: classID, PublicStatus: status}
	links := make([]models.MoocDeck, 0, len(deckIDs))
	for i, deckID := range deckIDs {
		links = append(links, models.MoocDeck{DeckID: deckID, Order: i + 1})
	}
	s.moocDecks[id] = links
	return id
}

func (s *memStore) addClass(ownerID int, memberIDs ...int) int {
	id := s.id()
	s.classes[id] = models.ClassInfo{ID: id, Name: fmt.Sprintf("Class %d", id), OwnerID: ownerID}
	s.members[id] = memberIDs
	return id
}

func (s *memStore) cardsOf(deckID int) []models.Card {
	var cards []models.Card
	for _, c := range s.cards {
		if c.DeckID == deckID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// fakeTransactor restores the store when the function fails.
//
// committedElsewhere, when set, is applied once after a rollback to model a
// write another transaction committed meanwhile.
type fakeTransactor struct {
	store              *memStore
	calls              int
	committedElsewhere func(s *memStore)
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	snapshot := t.store.clone()
	if err := fn(ctx); err != nil {
		*t.store = *snapshot
		if t.committedElsewhere != nil {
			t.committedElsewhere(t.store)
			t.committedElsewhere = nil
		}
		return err
	}
	return nil
}

type fakeMoocRepository struct{ s *memStore }

func (r *fakeMoocRepository) GetByID(ctx context.Context, id int) (*models.Mooc, error) {
	if err := r.s.fail("mooc.GetByID"); err != nil {
		return nil, err
	}
	m, ok := r.s.moocs[id]
	if !ok {
		return nil, fmt.Errorf("%w: mooc %d", models.ErrNotFound, id)
	}
	return &m, nil
}

func (r *fakeMoocRepository) GetAll(ctx context.Context, classID *int) ([]models.Mooc, error) {
	if err := r.s.fail("mooc.GetAll"); err != nil {
		return nil, err
	}
	moocs := []models.Mooc{}
	for _, m := range r.s.moocs {
		if classID != nil && (m.ClassID == nil || *m.ClassID != *classID) {
			continue
		}
		moocs = append(moocs, m)
	}
	sort.Slice(moocs, func(i, j int) bool { return moocs[i].ID < moocs[j].ID })
	return moocs, nil
}

func (r *fakeMoocRepository) Create(ctx context.Context, mooc *models.Mooc) error {
	if err := r.s.fail("mooc.Create"); err != nil {
		return err
	}
	mooc.ID = r.s.id()
	stored := *mooc
	stored.Decks, stored.EnrolledUsers = nil, nil
	r.s.moocs[mooc.ID] = stored
	return nil
}

func (r *fakeMoocRepository) Update(ctx context.Context, mooc *models.Mooc) error {
	if err := r.s.fail("mooc.Update"); err != nil {
		return err
	}
	stored := *mooc
	stored.Decks, stored.EnrolledUsers = nil, nil
	r.s.moocs[mooc.ID] = stored
	return nil
}

func (r *fakeMoocRepository) GetDecks(ctx context.Context, moocID int) ([]models.MoocDeck, error) {
	decks := []models.MoocDeck{}
	for _, link := range r.s.moocDecks[moocID] {
		deck, ok := r.s.decks[link.DeckID]
		if !ok {
			continue
		}
		decks = append(decks, models.MoocDeck{DeckID: link.DeckID, Order: link.Order, Deck: &deck})
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].Order < decks[j].Order })
	return decks, nil
}

func (r *fakeMoocRepository) ReplaceDecks(ctx context.Context, moocID int, decks []models.MoocDeck) error {
	if err := r.s.fail("mooc.ReplaceDecks"); err != nil {
		return err
	}
	orders := make(map[int]bool)
	links := make([]models.MoocDeck, 0, len(decks))
	for _, d := range decks {
		if orders[d.Order] {
			return errors.New("duplicate entry for key mooc_decks.mooc_order")
		}
		for otherID, otherLinks := range r.s.moocDecks {
			for _, l := range otherLinks {
				if otherID != moocID && l.DeckID == d.DeckID {
					return fmt.Errorf("%w: deck is already part of a mooc", models.ErrValidation)
				}
			}
		}
		orders[d.Order] = true
		links = append(links, models.MoocDeck{DeckID: d.DeckID, Order: d.Order})
	}
	r.s.moocDecks[moocID] = links
	return nil
}

func (r *fakeMoocRepository) GetMoocIDByDeck(ctx context.Context, deckID int) (int, error) {
	if err := r.s.fail("mooc.GetMoocIDByDeck"); err != nil {
		return 0, err
	}
	for moocID, links := range r.s.moocDecks {
		for _, l := range links {
			if l.DeckID == deckID {
				return moocID, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no mooc for deck %d", models.ErrNotFound, deckID)
}

func (r *fakeMoocRepository) Delete(ctx context.Context, id int) error {
	if err := r.s.fail("mooc.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.moocs[id]; !ok {
		return fmt.Errorf("%w: mooc %d", models.ErrNotFound, id)
	}
	delete(r.s.moocs, id)
	delete(r.s.moocDecks, id)
	for eid, e := range r.s.enrollments {
		if e.MoocID == id {
			delete(r.s.enrollments, eid)
		}
	}
	return nil
}

type fakeDeckRepository struct{ s *memStore }

func (r *fakeDeckRepository) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	d, ok := r.s.decks[id]
	if !ok {
		return nil, fmt.Errorf("%w: deck %d", models.ErrNotFound, id)
	}
	return &d, nil
}

func (r *fakeDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	if err := r.s.fail("deck.Create"); err != nil {
		return err
	}
	deck.ID = r.s.id()
	deck.CardCount = 0
	r.s.decks[deck.ID] = *deck
	return nil
}

func (r *fakeDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	stored := r.s.decks[deck.ID]
	stored.Title = deck.Title
	stored.Description = deck.Description
	stored.PublicStatus = deck.PublicStatus
	stored.PointsRequired = deck.PointsRequired
	r.s.decks[deck.ID] = stored
	return nil
}

func (r *fakeDeckRepository) SetPublicStatus(ctx context.Context, ids []int, status models.PublicStatus) error {
	if err := r.s.fail("deck.SetPublicStatus"); err != nil {
		return err
	}
	for _, id := range ids {
		if d, ok := r.s.decks[id]; ok {
			d.PublicStatus = status
			r.s.decks[id] = d
		}
	}
	return nil
}

func (r *fakeDeckRepository) SyncCardCount(ctx context.Context, deckID int) (int, error) {
	count := len(r.s.cardsOf(deckID))
	d := r.s.decks[deckID]
	d.CardCount = count
	r.s.decks[deckID] = d
	return count, nil
}

func (r *fakeDeckRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	if err := r.s.fail("deck.DeleteByIDs"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(r.s.decks, id)
		for moocID, links := range r.s.moocDecks {
			kept := links[:0]
			for _, l := range links {
				if l.DeckID != id {
					kept = append(kept, l)
				}
			}
			r.s.moocDecks[moocID] = kept
		}
	}
	return nil
}

type fakeCardRepository struct{ s *memStore }

func (r *fakeCardRepository) GetByID(ctx context.Context, id int) (*models.Card, error) {
	c, ok := r.s.cards[id]
	if !ok {
		return nil, fmt.Errorf("%w: card %d", models.ErrNotFound, id)
	}
	return &c, nil
}

func (r *fakeCardRepository) CreateBatch(ctx context.Context, deckID int, cards []models.Card) error {
	if err := r.s.fail("card.CreateBatch"); err != nil {
		return err
	}
	for _, c := range cards {
		c.ID = r.s.id()
		c.DeckID = deckID
		r.s.cards[c.ID] = c
	}
	return nil
}

func (r *fakeCardRepository) Update(ctx context.Context, card *models.Card) error {
	r.s.cards[card.ID] = *card
	return nil
}

func (r *fakeCardRepository) DeleteByDeckIDs(ctx context.Context, deckIDs []int) error {
	remove := make(map[int]bool)
	for _, id := range deckIDs {
		remove[id] = true
	}
	for id, c := range r.s.cards {
		if remove[c.DeckID] {
			delete(r.s.cards, id)
		}
	}
	return nil
}

type fakeClassRepository struct{ s *memStore }

func (r *fakeClassRepository) GetByID(ctx context.Context, id int) (*models.ClassInfo, error) {
	c, ok := r.s.classes[id]
	if !ok {
		return nil, fmt.Errorf("%w: class %d", models.ErrNotFound, id)
	}
	return &c, nil
}

func (r *fakeClassRepository) IsMember(ctx context.Context, classID, userID int) (bool, error) {
	for _, id := range r.s.members[classID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClassRepository) GetMemberIDs(ctx context.Context, classID int) ([]int, error) {
	return append([]int(nil), r.s.members[classID]...), nil
}

type fakeEnrollmentRepository struct {
	s            *memStore
	beforeCreate func(e *models.EnrolledUser) error
}

func (r *fakeEnrollmentRepository) GetByMoocID(ctx context.Context, moocID int) ([]models.EnrolledUser, error) {
	enrollments := []models.EnrolledUser{}
	for _, e := range r.s.enrollments {
		if e.MoocID == moocID {
			e.DeckProgress = append([]models.DeckProgress{}, e.DeckProgress...)
			enrollments = append(enrollments, e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (r *fakeEnrollmentRepository) GetByMoocAndUser(ctx context.Context, moocID, userID int) (*models.EnrolledUser, error) {
	for _, e := range r.s.enrollments {
		if e.MoocID == moocID && e.UserID == userID {
			e.DeckProgress = append([]models.DeckProgress{}, e.DeckProgress...)
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: enrollment of user %d in mooc %d", models.ErrNotFound, userID, moocID)
}

func (r *fakeEnrollmentRepository) Create(ctx context.Context, enrollment *models.EnrolledUser) error {
	if err := r.s.fail("enrollment.Create"); err != nil {
		return err
	}
	if r.beforeCreate != nil {
		if err := r.beforeCreate(enrollment); err != nil {
			return err
		}
	}
	for _, e := range r.s.enrollments {
		if e.MoocID == enrollment.MoocID && e.UserID == enrollment.UserID {
			return fmt.Errorf("%w: duplicate entry for key mooc_enrollments.mooc_user", models.ErrAlreadyExists)
		}
	}
	enrollment.ID = r.s.id()
	stored := *enrollment
	stored.DeckProgress = []models.DeckProgress{}
	r.s.enrollments[enrollment.ID] = stored
	return nil
}

func (r *fakeEnrollmentRepository) UpsertDeckProgress(ctx context.Context, enrollmentID int, progress models.DeckProgress) error {
	if err := r.s.fail("enrollment.UpsertDeckProgress"); err != nil {
		return err
	}
	e := r.s.enrollments[enrollmentID]
	e.DeckProgress = append([]models.DeckProgress{}, e.DeckProgress...)
	e.SetDeckProgress(progress)
	r.s.enrollments[enrollmentID] = e
	return nil
}

func (r *fakeEnrollmentRepository) UpdateState(ctx context.Context, enrollment *models.EnrolledUser) error {
	if err := r.s.fail("enrollment.UpdateState"); err != nil {
		return err
	}
	e := r.s.enrollments[enrollment.ID]
	e.CurrentDeckIndex = enrollment.CurrentDeckIndex
	e.ProgressState = enrollment.ProgressState
	e.CompletedAt = enrollment.CompletedAt
	r.s.enrollments[enrollment.ID] = e
	return nil
}

type fakeOverrideRepository struct{ s *memStore }

func overrideKey(moocID, userID, deckID int) string {
	return fmt.Sprintf("%d:%d:%d", moocID, userID, deckID)
}

func (r *fakeOverrideRepository) Add(ctx context.Context, moocID, userID, deckID int) error {
	if err := r.s.fail("override.Add"); err != nil {
		return err
	}
	r.s.overrides[overrideKey(moocID, userID, deckID)] = true
	return nil
}

func (r *fakeOverrideRepository) GetDeckIDs(ctx context.Context, moocID, userID int) (map[int]bool, error) {
	if err := r.s.fail("override.GetDeckIDs"); err != nil {
		return nil, err
	}
	ids := make(map[int]bool)
	for deckID := range r.s.decks {
		if r.s.overrides[overrideKey(moocID, userID, deckID)] {
			ids[deckID] = true
		}
	}
	return ids, nil
}

func (r *fakeOverrideRepository) DeleteByMoocID(ctx context.Context, moocID int) error {
	if err := r.s.fail("override.DeleteByMoocID"); err != nil {
		return err
	}
	prefix := fmt.Sprintf("%d:", moocID)
	for key := range r.s.overrides {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(r.s.overrides, key)
		}
	}
	return nil
}

type fakeNotificationRepository struct{ s *memStore }

func (r *fakeNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if err := r.s.fail("notification.CreateBatch"); err != nil {
		return err
	}
	for _, n := range notifications {
		n.ID = r.s.id()
		r.s.notifications = append(r.s.notifications, n)
	}
	return nil
}

func (r *fakeNotificationRepository) GetByUserID(ctx context.Context, userID, page, count int) ([]models.Notification, error) {
	if err := r.s.fail("notification.GetByUserID"); err != nil {
		return nil, err
	}
	var own []models.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		if r.s.notifications[i].UserID == userID {
			own = append(own, r.s.notifications[i])
		}
	}
	start := (page - 1) * count
	if start >= len(own) {
		return []models.Notification{}, nil
	}
	end := start + count
	if end > len(own) {
		end = len(own)
	}
	return own[start:end], nil
}

func (r *fakeNotificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	for i, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			r.s.notifications[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
}

// fakePublisher records published events
type fakePublisher struct {
	published []int
	completed [][2]int
	err       error
}

func (p *fakePublisher) PublishMoocPublished(ctx context.Context, moocID int) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, moocID)
	return nil
}

func (p *fakePublisher) PublishEnrollmentCompleted(ctx context.Context, moocID, userID int) error {
	if p.err != nil {
		return p.err
	}
	p.completed = append(p.completed, [2]int{moocID, userID})
	return nil
}

// testEnv wires every service to one memStore
type testEnv struct {
	store          *memStore
	tx             *fakeTransactor
	enrollmentRepo *fakeEnrollmentRepository
	events         *fakePublisher
	clock          time.Time
	moocs          *moocService
	enrollments    *enrollmentService
	unlocks        *unlockService
	notifications  *notificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	env := &testEnv{
		store:  store,
		tx:     &fakeTransactor{store: store},
		events: &fakePublisher{},
		clock:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	logger := zap.NewNop()

	moocRepo := &fakeMoocRepository{s: store}
	deckRepo := &fakeDeckRepository{s: store}
	cardRepo := &fakeCardRepository{s: store}
	classRepo := &fakeClassRepository{s: store}
	enrollmentRepo := &fakeEnrollmentRepository{s: store}
	env.enrollmentRepo = enrollmentRepo
	overrideRepo := &fakeOverrideRepository{s: store}
	notificationRepo := &fakeNotificationRepository{s: store}

	env.moocs = NewMoocService(env.tx, moocRepo, deckRepo, cardRepo, classRepo, enrollmentRepo, overrideRepo, env.events, logger)
	env.enrollments = NewEnrollmentService(env.tx, moocRepo, classRepo, enrollmentRepo, env.events, logger)
	env.enrollments.now = func() time.Time { return env.clock }
	env.unlocks = NewUnlockService(moocRepo, overrideRepo, logger)
	env.notifications = NewNotificationService(notificationRepo, moocRepo, classRepo, logger)
	return env
}

func ptr[T any](v T) *T {
	return &v
}
