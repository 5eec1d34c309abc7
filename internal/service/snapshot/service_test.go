package snapshot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEsClient struct {
	createdIndexes []string
	indexedDocs    []*model.WalletSnapshot
	createErr      error
	indexErr       error
}

func (fc *fakeEsClient) GetClient() *elasticsearch.TypedClient { return nil }

func (fc *fakeEsClient) CreateIndexWithMapping(ctx context.Context, index string) error {
	if fc.createErr != nil {
		return fc.createErr
	}
	fc.createdIndexes = append(fc.createdIndexes, index)
	return nil
}

func (fc *fakeEsClient) IndexDocWithID(ctx context.Context, doc *model.WalletSnapshot) error {
	if fc.indexErr != nil {
		return fc.indexErr
	}
	fc.indexedDocs = append(fc.indexedDocs, doc)
	return nil
}

func (fc *fakeEsClient) DocLink(doc *model.WalletSnapshot) string {
	return fmt.Sprintf("https://es.local/%s/_doc/%s", doc.GetIndex(), doc.GetID())
}

func fixedClockService(esClient *fakeEsClient, at time.Time) SnapshotService {
	svc := InitSnapshotService(esClient).(*snapshotService)
	svc.now = func() time.Time { return at }
	return svc
}

func TestSaveReturnsStableLink(t *testing.T) {
	esClient := &fakeEsClient{}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedClockService(esClient, at)
	result := entity.NewExtractionResult(entity.WalletSummary{"balance": 1.0}, nil)

	link, ok := svc.Save(context.Background(), "walletA", result)

	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("https://es.local/wallet_snapshots-2025-06-01/_doc/walletA-%d", at.Unix()), link)
	require.Len(t, esClient.indexedDocs, 1)
	assert.Equal(t, "walletA", esClient.indexedDocs[0].WalletAddress)
}

func TestSaveCreatesDatedIndexFirst(t *testing.T) {
	esClient := &fakeEsClient{}
	svc := fixedClockService(esClient, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	_, ok := svc.Save(context.Background(), "walletA", entity.NewExtractionResult(nil, nil))

	require.True(t, ok)
	assert.Equal(t, []string{"wallet_snapshots-2025-06-01"}, esClient.createdIndexes)
}

func TestSaveRejectsErrorResult(t *testing.T) {
	esClient := &fakeEsClient{}
	svc := InitSnapshotService(esClient)

	_, ok := svc.Save(context.Background(), "walletA", entity.NewErrorResult("导航超时"))
	assert.False(t, ok)
	_, ok = svc.Save(context.Background(), "walletA", nil)
	assert.False(t, ok)

	// 错误结果不产生任何写入
	assert.Empty(t, esClient.createdIndexes)
	assert.Empty(t, esClient.indexedDocs)
}

func TestSaveReportsStorageFailure(t *testing.T) {
	esClient := &fakeEsClient{indexErr: errors.New("es unavailable")}
	svc := InitSnapshotService(esClient)

	link, ok := svc.Save(context.Background(), "walletA", entity.NewExtractionResult(nil, nil))

	assert.False(t, ok)
	assert.Empty(t, link)
}
