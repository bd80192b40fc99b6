package seed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jinzhu/gorm"

	"trivia_api/dao"
	"trivia_api/models"
)

const doc = `{
  "categories": [{"id": 1, "type": "Science"}, {"id": 2, "type": "Art"}],
  "questions": [
    {"question": "What is the heaviest organ in the human body?", "answer": "The Liver", "category": 1, "difficulty": 4},
    {"question": "Which Dutch graphic artist made mathematically inspired woodcuts?", "answer": "Escher", "category": 2, "difficulty": 1}
  ]
}`

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	store := dao.NewMemoryStore()
	res, err := NewLoader("us-east-1").Load(context.Background(), path, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Categories != 2 || res.Questions != 2 {
		t.Errorf("result = %+v", res)
	}

	// a second run finds both tables populated
	res, err = NewLoader("us-east-1").Load(context.Background(), path, store)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if res.Categories != 0 || res.Questions != 0 {
		t.Errorf("second result = %+v", res)
	}
	if n, _ := store.CountQuestions(); n != 2 {
		t.Errorf("questions = %d", n)
	}
}

func TestLoadFromS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"trivia-seed/v1/questions.json": doc}}
	store := dao.NewMemoryStore()

	res, err := NewLoaderWithClient(client).Load(context.Background(), "s3://trivia-seed/v1/questions.json", store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Questions != 2 {
		t.Errorf("result = %+v", res)
	}

	cats, _ := store.Categories()
	if len(cats) != 2 || cats[0].Type != "Science" {
		t.Errorf("categories = %+v", cats)
	}

	_, err = NewLoaderWithClient(client).Load(context.Background(), "s3://trivia-seed/missing.json", dao.NewMemoryStore())
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("missing object err = %v", err)
	}
}

func TestLoadBadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("").Load(context.Background(), path, dao.NewMemoryStore()); err == nil {
		t.Fatal("expected a decode error")
	}
}

const numberedDoc = `{
  "categories": [{"id": 1, "type": "Science"}],
  "questions": [
    {"id": 5, "question": "What is the heaviest organ in the human body?", "answer": "The Liver", "category": 1, "difficulty": 4},
    {"id": 9, "question": "How many bones are in the adult human body?", "answer": "206", "category": 1, "difficulty": 3}
  ]
}`

type syncingStore struct {
	*dao.MemoryStore
	synced int
	err    error
}

func (s *syncingStore) SyncSequences() error {
	s.synced++
	return s.err
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSyncsSequences(t *testing.T) {
	path := writeSeed(t, numberedDoc)
	store := &syncingStore{MemoryStore: dao.NewMemoryStore()}

	if _, err := NewLoader("").Load(context.Background(), path, store); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.synced != 1 {
		t.Errorf("synced %d times, want 1", store.synced)
	}

	// nothing inserted, nothing to sync
	if _, err := NewLoader("").Load(context.Background(), path, store); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if store.synced != 1 {
		t.Errorf("synced %d times after a no-op load", store.synced)
	}

	failing := &syncingStore{MemoryStore: dao.NewMemoryStore(), err: errors.New("permission denied for sequence")}
	if _, err := NewLoader("").Load(context.Background(), path, failing); !errors.Is(err, failing.err) {
		t.Errorf("err = %v, want the sync error", err)
	}
}

func TestLoadExplicitIDsIntoSQL(t *testing.T) {
	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "trivia.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := dao.Migrate(db); err != nil {
		t.Fatal(err)
	}
	store := dao.NewGormStore(db, nil)

	res, err := NewLoader("").Load(context.Background(), writeSeed(t, numberedDoc), store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Questions != 2 {
		t.Errorf("result = %+v", res)
	}

	answer := "Mercury"
	q := models.Question{Answer: &answer}
	if err := store.InsertQuestion(&q); err != nil {
		t.Fatalf("insert after seed: %v", err)
	}
	if q.ID != 10 {
		t.Errorf("id after seed = %d, want 10", q.ID)
	}
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://b/k.json", "b", "k.json", true},
		{"s3://b/dir/k.json", "b", "dir/k.json", true},
		{"s3://b", "", "", false},
		{"s3:///k", "", "", false},
		{"./seed.json", "", "", false},
	}
	for _, tt := range tests {
		b, k, ok := ParseS3URI(tt.in)
		if b != tt.bucket || k != tt.key || ok != tt.ok {
			t.Errorf("ParseS3URI(%q) = %q, %q, %v", tt.in, b, k, ok)
		}
	}
}
