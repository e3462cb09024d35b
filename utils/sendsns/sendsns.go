package sendsns

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
)

const max_subject_length = 100

// Notifier publishes job outcomes to an SNS topic. With no topic it does
// nothing.
type Notifier struct {
	TopicArn string
	Client   snsiface.SNSAPI
}

func New(topicArn string) *Notifier {
	notifier := &Notifier{TopicArn: topicArn}
	if topicArn == "" {
		return notifier
	}
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	notifier.Client = sns.New(sess)
	return notifier
}

func (n *Notifier) Notify(ctx context.Context, subject string, message string) error {
	if n.TopicArn == "" || n.Client == nil {
		return nil
	}
	if len(subject) > max_subject_length {
		subject = subject[:max_subject_length]
	}
	_, err := n.Client.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(message),
		TopicArn: aws.String(n.TopicArn),
		Subject:  aws.String(subject),
	})
	return err
}
