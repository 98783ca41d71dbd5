package services

import (
	"context"

	"healthtrack/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionService labels journal photos so entries can be searched by what they show.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService(ctx context.Context, region string) (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// RecognizeLabels returns the top labels for a base64 data-URI image.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, dataURI string) ([]string, error) {
	img, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img.Data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}
