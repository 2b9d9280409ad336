package mockapi

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errUnknownUser  = errors.New("user not found")
	errLogNotFound  = errors.New("activity log not found")
	errUsernameUsed = errors.New("username already taken")
)

type userRecord struct {
	profile      account.Profile
	passwordHash []byte
}

// Store is the in-memory state of the mock backend.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*userRecord
	byEmail  map[string]int64
	logs     map[int64][]activity.Log
	nextUser int64
	nextLog  int64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		users:   make(map[int64]*userRecord),
		byEmail: make(map[string]int64),
		logs:    make(map[int64][]activity.Log),
		now:     now,
	}
}

func (s *Store) createUser(email, fullName string, hash []byte) (account.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return account.Profile{}, errEmailTaken
	}
	s.nextUser++
	p := account.Profile{
		ID:        s.nextUser,
		Email:     email,
		Username:  s.uniqueUsername(strings.SplitN(key, "@", 2)[0]),
		FullName:  fullName,
		CreatedAt: s.now().UTC(),
	}
	s.users[p.ID] = &userRecord{profile: p, passwordHash: hash}
	s.byEmail[key] = p.ID
	return p, nil
}

// uniqueUsername must be called with mu held.
func (s *Store) uniqueUsername(base string) string {
	name := base
	for i := 2; s.usernameTaken(name, 0); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	return name
}

func (s *Store) usernameTaken(name string, except int64) bool {
	for id, u := range s.users {
		if id != except && strings.EqualFold(u.profile.Username, name) {
			return true
		}
	}
	return false
}

func (s *Store) credentials(email string) (account.Profile, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return account.Profile{}, nil, false
	}
	u := s.users[id]
	return u.profile, u.passwordHash, true
}

func (s *Store) profile(userID int64) (account.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return account.Profile{}, errUnknownUser
	}
	p := u.profile
	p.EcoScore = ecoScore(s.logs[userID])
	return p, nil
}

func (s *Store) updateProfile(userID int64, upd account.ProfileUpdate) (account.Profile, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return account.Profile{}, errUnknownUser
	}
	if upd.Username != nil {
		if s.usernameTaken(*upd.Username, userID) {
			s.mu.Unlock()
			return account.Profile{}, errUsernameUsed
		}
		u.profile.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.profile.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		u.profile.Bio = *upd.Bio
	}
	if upd.Location != nil {
		u.profile.Location = *upd.Location
	}
	s.mu.Unlock()
	return s.profile(userID)
}

// Logs returns a copy of the user's logs in creation order.
func (s *Store) Logs(userID int64) []activity.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.logs[userID])
}

func (s *Store) addLog(userID int64, in activity.Input) activity.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLog++
	l := in.ToLog(activity.Persisted(s.nextLog), s.now().UTC())
	s.logs[userID] = append(s.logs[userID], l)
	return l
}

func (s *Store) updateLog(userID, logID int64, in activity.Input) (activity.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.logs[userID]
	i := slices.IndexFunc(logs, func(l activity.Log) bool { return l.ID == activity.Persisted(logID) })
	if i < 0 {
		return activity.Log{}, errLogNotFound
	}
	logs[i] = in.ToLog(logs[i].ID, logs[i].CreatedAt)
	return logs[i], nil
}

func (s *Store) deleteLog(userID, logID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.logs[userID]
	i := slices.IndexFunc(logs, func(l activity.Log) bool { return l.ID == activity.Persisted(logID) })
	if i < 0 {
		return errLogNotFound
	}
	s.logs[userID] = slices.Delete(logs, i, i+1)
	return nil
}

type standing struct {
	profile        account.Profile
	emissionsSaved float64
}

// standings ranks all users by eco score, then emissions saved, then username.
func (s *Store) standings() []standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]standing, 0, len(s.users))
	for id, u := range s.users {
		p := u.profile
		p.EcoScore = ecoScore(s.logs[id])
		var saved float64
		for _, l := range s.logs[id] {
			saved += l.EmissionsSaved
		}
		out = append(out, standing{profile: p, emissionsSaved: saved})
	}
	slices.SortFunc(out, func(a, b standing) int {
		if c := cmp.Compare(b.profile.EcoScore, a.profile.EcoScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.emissionsSaved, a.emissionsSaved); c != 0 {
			return c
		}
		return cmp.Compare(a.profile.Username, b.profile.Username)
	})
	return out
}

func ecoScore(logs []activity.Log) int {
	total := 0
	for _, l := range logs {
		total += l.PointsEarned
	}
	return total
}
