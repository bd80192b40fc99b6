package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"

	"trivia_api/models"
)

// SNSPublisher publishes question events as JSON to one topic.
type SNSPublisher struct {
	client   snsiface.SNSAPI
	topicARN string
}

func NewSNSPublisher(region, topicARN string) (*SNSPublisher, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewSNSPublisherWithClient(sns.New(sess), topicARN), nil
}

func NewSNSPublisherWithClient(client snsiface.SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.QuestionEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	input := &sns.PublishInput{
		Message:  aws.String(string(msg)),
		TopicArn: aws.String(p.topicARN),
		MessageAttributes: map[string]*sns.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	}
	if _, err := p.client.PublishWithContext(ctx, input); err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return fmt.Errorf("sns publish %s: %s: %s", event.Type, aerr.Code(), aerr.Message())
		}
		return fmt.Errorf("sns publish %s: %w", event.Type, err)
	}
	return nil
}
