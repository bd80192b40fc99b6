package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"trivia_api/function"
	"trivia_api/logger"
	"trivia_api/models"
)

// Store is the persistence the question service needs.
type Store interface {
	Categories() ([]models.Category, error)
	Questions(f models.QuestionFilter) ([]models.Question, error)
	// FindQuestion returns nil, nil when the id does not exist.
	FindQuestion(id int) (*models.Question, error)
	CountQuestions() (int, error)
	InsertQuestion(q *models.Question) error
	DeleteQuestion(id int) error
}

// CategoryCache holds the id → label map between requests.
type CategoryCache interface {
	Get(ctx context.Context) (map[string]string, bool, error)
	Set(ctx context.Context, categories map[string]string) error
}

// Publisher receives an event after every successful create and delete.
type Publisher interface {
	Publish(ctx context.Context, event models.QuestionEvent) error
}

type QuestionService struct {
	store     Store
	cache     CategoryCache
	publisher Publisher
	intn      func(n int) int
}

type Option func(*QuestionService)

func WithCategoryCache(c CategoryCache) Option {
	return func(s *QuestionService) { s.cache = c }
}

func WithPublisher(p Publisher) Option {
	return func(s *QuestionService) { s.publisher = p }
}

// WithRandom replaces the uniform source used by DrawQuiz. intn must return
// a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *QuestionService) { s.intn = intn }
}

func NewQuestionService(store Store, opts ...Option) *QuestionService {
	s := &QuestionService{store: store, intn: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QuestionPage is one page of questions. Total counts the whole result set
// the page was cut from.
type QuestionPage struct {
	Questions  []models.Question
	Total      int
	Categories map[string]string
}

// NewQuestion is the create request. Absent fields are stored as NULL.
type NewQuestion struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// Categories returns every category keyed by its stringified id.
func (s *QuestionService) Categories(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Log.Printf("category cache get: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.store.Categories()
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrPersistence, err)
	}
	out := make(map[string]string, len(categories))
	for _, c := range categories {
		out[strconv.Itoa(c.ID)] = c.Type
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, out); err != nil {
			logger.Log.Printf("category cache set: %v", err)
		}
	}
	return out, nil
}

// ListQuestions returns one page of all questions plus the category map.
// An empty page is ErrNotFound.
func (s *QuestionService) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	questions, err := s.store.Questions(models.QuestionFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", ErrPersistence, err)
	}
	current := function.Paginate(questions, page)
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: page %d of %d questions", ErrNotFound, page, len(questions))
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: current, Total: len(questions), Categories: categories}, nil
}

// QuestionsByCategory returns one page of the questions in a category.
// An empty page is ErrNotFound.
func (s *QuestionService) QuestionsByCategory(categoryID, page int) (*QuestionPage, error) {
	questions, err := s.store.Questions(models.InCategory(categoryID))
	if err != nil {
		return nil, fmt.Errorf("%w: list category %d: %v", ErrPersistence, categoryID, err)
	}
	current := function.Paginate(questions, page)
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: page %d of category %d", ErrNotFound, page, categoryID)
	}
	return &QuestionPage{Questions: current, Total: len(questions)}, nil
}

// Search returns one page of the questions whose text contains term,
// ignoring case. Total is the number of matches, not the page size.
// No matches is not an error.
func (s *QuestionService) Search(term string, page int) (*QuestionPage, error) {
	questions, err := s.store.Questions(models.QuestionFilter{Search: term})
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", ErrPersistence, term, err)
	}
	return &QuestionPage{Questions: function.Paginate(questions, page), Total: len(questions)}, nil
}

// CreateQuestion stores q without validating it and returns the new id.
func (s *QuestionService) CreateQuestion(ctx context.Context, q NewQuestion) (int, error) {
	question := models.Question{
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
	if err := s.store.InsertQuestion(&question); err != nil {
		return 0, fmt.Errorf("%w: insert question: %v", ErrPersistence, err)
	}

	s.publish(ctx, models.QuestionEvent{Type: models.EventQuestionCreated, QuestionID: question.ID})
	return question.ID, nil
}

// DeleteQuestion removes the question and returns how many remain.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id int) (int, error) {
	question, err := s.store.FindQuestion(id)
	if err != nil {
		return 0, fmt.Errorf("%w: find question %d: %v", ErrPersistence, id, err)
	}
	if question == nil {
		return 0, fmt.Errorf("%w: question %d", ErrNotFound, id)
	}

	if err := s.store.DeleteQuestion(id); err != nil {
		return 0, fmt.Errorf("%w: delete question %d: %v", ErrPersistence, id, err)
	}
	remaining, err := s.store.CountQuestions()
	if err != nil {
		return 0, fmt.Errorf("%w: count questions: %v", ErrPersistence, err)
	}

	s.publish(ctx, models.QuestionEvent{Type: models.EventQuestionDeleted, QuestionID: id, TotalQuestions: &remaining})
	return remaining, nil
}

// DrawQuiz picks one question uniformly at random from categoryID (0 means
// every category), skipping the ids in previous. ErrSampling means nothing
// is left to draw.
func (s *QuestionService) DrawQuiz(categoryID int, previous []int) (*models.Question, error) {
	filter := models.QuestionFilter{Exclude: previous}
	if categoryID != 0 {
		filter.Category = &categoryID
	}

	candidates, err := s.store.Questions(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz candidates: %v", ErrPersistence, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no questions left in category %d after %d previous", ErrSampling, categoryID, len(previous))
	}

	q := candidates[s.intn(len(candidates))]
	return &q, nil
}

// Healthy reports whether the store answers queries.
func (s *QuestionService) Healthy() error {
	if _, err := s.store.CountQuestions(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *QuestionService) publish(ctx context.Context, event models.QuestionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Log.Printf("publish %s for question %d: %v", event.Type, event.QuestionID, err)
	}
}
