package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// LandmarkRepo reads the static landmark registry.
// PK: landmark_id. Written only by the bootstrap seeder.
type LandmarkRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLandmarkRepo(client *dynamodb.Client, tableName string) *LandmarkRepo {
	return &LandmarkRepo{client: client, tableName: tableName}
}

// Scan returns every landmark in the registry. The registry is small and
// read once at startup, so a full scan is fine here.
func (r *LandmarkRepo) Scan(ctx context.Context) ([]domain.Landmark, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("scan landmarks: %w", err)
	}
	var landmarks []domain.Landmark
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &landmarks); err != nil {
		return nil, fmt.Errorf("unmarshal landmarks: %w", err)
	}
	return landmarks, nil
}

// Put writes one registry entry. Used by the bootstrap seeder only.
func (r *LandmarkRepo) Put(ctx context.Context, l *domain.Landmark) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal landmark: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
