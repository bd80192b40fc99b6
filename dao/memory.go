package dao

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"trivia_api/models"
)

// MemoryStore is a process-local store, used with DB_DIALECT=memory and in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	categories []models.Category
	questions  []models.Question // sorted by id
	lastID     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Categories() ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

func (s *MemoryStore) CountCategories() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories), nil
}

// InsertCategory assigns the next free id when c.ID is zero.
func (s *MemoryStore) InsertCategory(c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		for _, existing := range s.categories {
			c.ID = max(c.ID, existing.ID)
		}
		c.ID++
	}
	s.categories = append(s.categories, *c)
	sort.Slice(s.categories, func(i, j int) bool { return s.categories[i].ID < s.categories[j].ID })
	return nil
}

func (s *MemoryStore) Questions(f models.QuestionFilter) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(f.Search)
	var out []models.Question
	for _, q := range s.questions {
		if f.Category != nil && (q.Category == nil || *q.Category != *f.Category) {
			continue
		}
		if term != "" && (q.Question == nil || !strings.Contains(strings.ToLower(*q.Question), term)) {
			continue
		}
		if slices.Contains(f.Exclude, q.ID) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *MemoryStore) FindQuestion(id int) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index(id); ok {
		q := s.questions[i]
		return &q, nil
	}
	return nil, nil
}

func (s *MemoryStore) CountQuestions() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// InsertQuestion assigns q.ID unless it is already set.
func (s *MemoryStore) InsertQuestion(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID == 0 {
		s.lastID++
		q.ID = s.lastID
	} else {
		s.lastID = max(s.lastID, q.ID)
	}
	s.questions = append(s.questions, *q)
	sort.Slice(s.questions, func(i, j int) bool { return s.questions[i].ID < s.questions[j].ID })
	return nil
}

func (s *MemoryStore) DeleteQuestion(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index(id); ok {
		s.questions = slices.Delete(s.questions, i, i+1)
	}
	return nil
}

func (s *MemoryStore) index(id int) (int, bool) {
	return sort.Find(len(s.questions), func(i int) int {
		switch {
		case id < s.questions[i].ID:
			return -1
		case id > s.questions[i].ID:
			return 1
		}
		return 0
	})
}
