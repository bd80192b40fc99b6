package dao

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	"gopkg.in/alexcesaro/statsd.v2"

	"trivia_api/models"
)

// GormStore keeps questions and categories in a SQL database.
type GormStore struct {
	db    *gorm.DB
	stats *statsd.Client
}

// NewGormStore wraps db. Query timings go to stats under db_response_time;
// a nil stats client is replaced by a muted one.
func NewGormStore(db *gorm.DB, stats *statsd.Client) *GormStore {
	if stats == nil {
		stats, _ = statsd.New(statsd.Mute(true))
	}
	return &GormStore{db: db, stats: stats}
}

func (s *GormStore) Categories() ([]models.Category, error) {
	defer s.stats.NewTiming().Send("db_response_time")

	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GormStore) CountCategories() (int, error) {
	defer s.stats.NewTiming().Send("db_response_time")

	var n int
	err := s.db.Model(&models.Category{}).Count(&n).Error
	return n, err
}

func (s *GormStore) InsertCategory(c *models.Category) error {
	defer s.stats.NewTiming().Send("db_response_time")
	return s.db.Create(c).Error
}

// Questions returns the questions matching f ordered by id.
func (s *GormStore) Questions(f models.QuestionFilter) ([]models.Question, error) {
	defer s.stats.NewTiming().Send("db_response_time")

	q := s.db.Order("id")
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(question) LIKE ? ESCAPE '!'", likePattern(f.Search))
	}
	if len(f.Exclude) > 0 {
		q = q.Where("id NOT IN (?)", f.Exclude)
	}

	var questions []models.Question
	if err := q.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindQuestion returns nil and no error when there is no question with id.
func (s *GormStore) FindQuestion(id int) (*models.Question, error) {
	defer s.stats.NewTiming().Send("db_response_time")

	var question models.Question
	err := s.db.Where("id = ?", id).First(&question).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *GormStore) CountQuestions() (int, error) {
	defer s.stats.NewTiming().Send("db_response_time")

	var n int
	err := s.db.Model(&models.Question{}).Count(&n).Error
	return n, err
}

// InsertQuestion stores q and sets q.ID.
func (s *GormStore) InsertQuestion(q *models.Question) error {
	defer s.stats.NewTiming().Send("db_response_time")
	return s.db.Create(q).Error
}

func (s *GormStore) DeleteQuestion(id int) error {
	defer s.stats.NewTiming().Send("db_response_time")
	return s.db.Where("id = ?", id).Delete(&models.Question{}).Error
}

// SyncSequences moves the postgres id sequences past the highest stored id.
// Rows inserted with explicit ids (a seed dump) do not advance a serial
// column; mysql and sqlite track that on their own.
func (s *GormStore) SyncSequences() error {
	if s.db.Dialect().GetName() != "postgres" {
		return nil
	}
	for _, table := range []string{"categories", "questions"} {
		err := s.db.Exec(fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table,
		)).Error
		if err != nil {
			return fmt.Errorf("sync %s id sequence: %w", table, err)
		}
	}
	return nil
}

// '!' rather than a backslash: mysql string literals treat backslashes as
// escapes while postgres and sqlite do not.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// likePattern matches term literally anywhere in a lowercased column, with
// '!' as the LIKE escape character.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
