package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/flaboy/aira-giftcard/pkg/config"
)

// SQSNotifier 把投递请求排入SQS队列，由独立的邮件worker消费
type SQSNotifier struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSNotifier() (*SQSNotifier, error) {
	ctx := context.Background()

	var cfg aws.Config
	var err error

	if config.Config.Notify.AWSAccessKey != "" && config.Config.Notify.AWSSecret != "" {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.Config.Notify.AWSAccessKey,
				config.Config.Notify.AWSSecret,
				"",
			)),
		)
	} else {
		// 回退到默认凭证链
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
		)
	}
	if err != nil {
		return nil, err
	}

	return &SQSNotifier{
		client:   sqs.NewFromConfig(cfg),
		queueURL: config.Config.Notify.SQSQueueURL,
	}, nil
}

func (n *SQSNotifier) GetChannelName() string {
	return "sqs"
}

func (n *SQSNotifier) Send(recipient, subject, body string) error {
	_, err := n.client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(body),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"recipient": {
				DataType:    aws.String("String"),
				StringValue: aws.String(recipient),
			},
			"subject": {
				DataType:    aws.String("String"),
				StringValue: aws.String(subject),
			},
			"from": {
				DataType:    aws.String("String"),
				StringValue: aws.String(config.Config.Notify.FromAddress),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue delivery message: %w", err)
	}
	return nil
}
