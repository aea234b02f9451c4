package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// PushService delivers notifications through SNS platform endpoints
// (FCM behind SNS). It is the production NotificationGateway.
type PushService struct {
	sns         *awssns.Client
	platformArn string
}

func NewPushService(region, platformArn string) (*PushService, error) {
	if platformArn == "" {
		return nil, errors.New("SNS platform application ARN not set")
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		sns:         awssns.NewFromConfig(cfg),
		platformArn: platformArn,
	}, nil
}

// RegisterEndpoint exchanges a raw device token for an SNS endpoint
// ARN. Tokens stored on users are the endpoint ARNs, so Send can
// publish directly.
func (p *PushService) RegisterEndpoint(token string) (string, error) {
	out, err := p.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(p.platformArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.EndpointArn), nil
}

func (p *PushService) Send(deviceToken, title, body string, data map[string]string) (string, error) {
	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title,
				"body":  body,
			},
			"data": data,
		},
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	out, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
		MessageStructure: aws.String("json"),
		Message:          aws.String(string(raw)),
		TargetArn:        aws.String(deviceToken),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
