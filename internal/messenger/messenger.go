package messenger

import (
	"fmt"
	"strconv"

	"github.com/ZilDuck/nft-market-ledger/internal/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"go.uber.org/zap"
)

type MessageService interface {
	SendMessage(item Item, body []byte) error
	PollMessages(item Item, messages chan *sqs.Message)
	DeleteMessage(item Item, msg *sqs.Message) error
	GetQueueSize(item Item) (*int, error)
}

type Messenger struct {
	sqsClient *sqs.SQS
	queueUrls map[Item]*string
}

type Item string

var (
	RandomnessRequest   Item = "randomness-request"
	RandomnessFulfilled Item = "randomness-fulfilled"
	MetadataRefresh     Item = "metadata-refresh"
)

func (i Item) queue() string {
	return fmt.Sprintf("%s-%s", config.Get().Index, i)
}

func NewMessenger(sess *session.Session) MessageService {
	return &Messenger{
		sqsClient: sqs.New(sess),
		queueUrls: make(map[Item]*string),
	}
}

func (m *Messenger) SendMessage(item Item, body []byte) error {
	queueUrl, err := m.queueUrl(item)
	if err != nil {
		return err
	}

	_, err = m.sqsClient.SendMessage(&sqs.SendMessageInput{
		QueueUrl:    queueUrl,
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("[Queue] Failed to send message")
		return err
	}

	zap.L().With(zap.String("queue", item.queue())).Debug("[Queue] Published message")

	return nil
}

func (m *Messenger) PollMessages(item Item, messages chan *sqs.Message) {
	queueUrl, err := m.queueUrl(item)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Fatal("[Queue] Failed to resolve queue")
	}

	for {
		output, err := m.sqsClient.ReceiveMessage(&sqs.ReceiveMessageInput{
			QueueUrl:            queueUrl,
			MaxNumberOfMessages: aws.Int64(10),
			WaitTimeSeconds:     aws.Int64(20),
		})
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("[Queue] Failed to receive messages")
			continue
		}

		for _, message := range output.Messages {
			messages <- message
		}
	}
}

func (m *Messenger) DeleteMessage(item Item, msg *sqs.Message) error {
	queueUrl, err := m.queueUrl(item)
	if err != nil {
		return err
	}

	_, err = m.sqsClient.DeleteMessage(&sqs.DeleteMessageInput{
		QueueUrl:      queueUrl,
		ReceiptHandle: msg.ReceiptHandle,
	})

	return err
}

func (m *Messenger) GetQueueSize(item Item) (*int, error) {
	queueUrl, err := m.queueUrl(item)
	if err != nil {
		return nil, err
	}

	attrs, err := m.sqsClient.GetQueueAttributes(&sqs.GetQueueAttributesInput{
		QueueUrl:       queueUrl,
		AttributeNames: []*string{aws.String(sqs.QueueAttributeNameApproximateNumberOfMessages)},
	})
	if err != nil {
		return nil, err
	}

	size, err := strconv.Atoi(*attrs.Attributes[sqs.QueueAttributeNameApproximateNumberOfMessages])
	if err != nil {
		return nil, err
	}

	return &size, nil
}

func (m *Messenger) queueUrl(item Item) (*string, error) {
	if url, ok := m.queueUrls[item]; ok {
		return url, nil
	}

	output, err := m.sqsClient.GetQueueUrl(&sqs.GetQueueUrlInput{
		QueueName: aws.String(item.queue()),
	})
	if err != nil {
		created, err := m.sqsClient.CreateQueue(&sqs.CreateQueueInput{
			QueueName: aws.String(item.queue()),
		})
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("[Queue] Failed to create queue")
			return nil, err
		}
		m.queueUrls[item] = created.QueueUrl
		return created.QueueUrl, nil
	}

	m.queueUrls[item] = output.QueueUrl

	return output.QueueUrl, nil
}
