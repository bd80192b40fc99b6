// Package seed fills an empty store from a JSON document kept on disk or in S3.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"trivia_api/logger"
	"trivia_api/models"
)

// Document is the seed file layout.
type Document struct {
	Categories []models.Category `json:"categories"`
	Questions  []models.Question `json:"questions"`
}

// Target is the part of a store the loader writes to.
type Target interface {
	CountCategories() (int, error)
	InsertCategory(c *models.Category) error
	CountQuestions() (int, error)
	InsertQuestion(q *models.Question) error
}

// sequenceSyncer is implemented by stores whose id counters do not follow
// explicitly inserted ids.
type sequenceSyncer interface {
	SyncSequences() error
}

type Result struct {
	Categories int
	Questions  int
}

type Loader struct {
	region string
	s3     s3iface.S3API
}

// NewLoader returns a loader that reads s3:// sources from region. The S3
// client is created on first use.
func NewLoader(region string) *Loader {
	return &Loader{region: region}
}

func NewLoaderWithClient(client s3iface.S3API) *Loader {
	return &Loader{s3: client}
}

// Load reads source and inserts what the target is missing. Categories are
// only written to an empty category table, questions to an empty question
// table, so running it twice is harmless.
func (l *Loader) Load(ctx context.Context, source string, target Target) (Result, error) {
	var res Result

	r, err := l.open(ctx, source)
	if err != nil {
		return res, err
	}
	defer r.Close()

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return res, fmt.Errorf("decode seed %s: %w", source, err)
	}

	n, err := target.CountCategories()
	if err != nil {
		return res, fmt.Errorf("count categories: %w", err)
	}
	if n == 0 {
		for i := range doc.Categories {
			if err := target.InsertCategory(&doc.Categories[i]); err != nil {
				return res, fmt.Errorf("insert category %q: %w", doc.Categories[i].Type, err)
			}
			res.Categories++
		}
	} else {
		logger.Log.Printf("seed: %d categories already present, skipping", n)
	}

	n, err = target.CountQuestions()
	if err != nil {
		return res, fmt.Errorf("count questions: %w", err)
	}
	if n == 0 {
		for i := range doc.Questions {
			if err := target.InsertQuestion(&doc.Questions[i]); err != nil {
				return res, fmt.Errorf("insert question %d of seed: %w", i, err)
			}
			res.Questions++
		}
	} else {
		logger.Log.Printf("seed: %d questions already present, skipping", n)
	}

	if s, ok := target.(sequenceSyncer); ok && res.Categories+res.Questions > 0 {
		if err := s.SyncSequences(); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	bucket, key, ok := ParseS3URI(source)
	if !ok {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open seed: %w", err)
		}
		return f, nil
	}

	if l.s3 == nil {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(l.region),
		})
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
		l.s3 = s3.New(sess)
	}

	out, err := l.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("seed object s3://%s/%s does not exist", bucket, key)
		}
		return nil, fmt.Errorf("get seed object s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(source string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
