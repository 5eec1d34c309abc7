package snapshot

import (
	"context"
	"log"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/LouYuanbo1/walletagent/internal/infra/persistence/es"
)

// SnapshotService 把提取结果作为一行快照追加到按日期划分的集合里
type SnapshotService interface {
	// Save 成功返回快照的稳定链接,失败只返回false,不对外暴露细节
	Save(ctx context.Context, address string, result *entity.ExtractionResult) (string, bool)
}

type snapshotService struct {
	esClient es.TypedEsClient[*model.WalletSnapshot]
	now      func() time.Time
}

func InitSnapshotService(esClient es.TypedEsClient[*model.WalletSnapshot]) SnapshotService {
	return &snapshotService{esClient: esClient, now: time.Now}
}

func (ss *snapshotService) Save(ctx context.Context, address string, result *entity.ExtractionResult) (string, bool) {
	if result == nil || result.IsError() {
		log.Printf("拒绝保存错误结果 (钱包: %s)", address)
		return "", false
	}

	doc := model.NewWalletSnapshot(address, result, ss.now())

	// 当天第一条快照会触发建索引,索引带固定映射
	if err := ss.esClient.CreateIndexWithMapping(ctx, doc.GetIndex()); err != nil {
		log.Printf("创建快照索引失败 (钱包: %s): %v", address, err)
		return "", false
	}
	if err := ss.esClient.IndexDocWithID(ctx, doc); err != nil {
		log.Printf("保存钱包快照失败 (钱包: %s): %v", address, err)
		return "", false
	}

	link := ss.esClient.DocLink(doc)
	log.Printf("钱包快照已保存: %s", link)
	return link, true
}
