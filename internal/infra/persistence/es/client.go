package es

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/elastic/go-elasticsearch/v9"
)

// TypedEsClient 按日期分索引的快照存储客户端
// 索引名由文档自身决定(按抓取日期),首次写入某个日期时自动建索引并设置固定映射
type TypedEsClient[D model.Document] interface {
	GetClient() *elasticsearch.TypedClient
	CreateIndexWithMapping(ctx context.Context, index string) error
	IndexDocWithID(ctx context.Context, doc D) error
	// DocLink 返回文档的稳定访问链接
	DocLink(doc D) string
}

type typedEsClient[D model.Document] struct {
	client  *elasticsearch.TypedClient
	address string
	// 特别说明：这个实例仅用于获取映射信息，不用于存储数据
	// Instance used for getting schema/configuration, not for data storage
	schemaDoc D
}

func InitTypedEsClient[D model.Document](cfg *config.Config) (TypedEsClient[D], error) {
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Addresses: []string{
			cfg.Elasticsearch.Address,
		},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// 跳过TLS验证（仅在开发环境中使用）
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Elasticsearch client: %s", err)
	}
	return &typedEsClient[D]{client: typedClient, address: strings.TrimRight(cfg.Elasticsearch.Address, "/")}, nil
}

func (tec *typedEsClient[D]) GetClient() *elasticsearch.TypedClient {
	return tec.client
}

func (tec *typedEsClient[D]) CreateIndexWithMapping(ctx context.Context, index string) error {
	exists, err := tec.client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index existence in es: %s", err)
	}
	if exists {
		return nil
	}

	mapping := tec.schemaDoc.GetTypeMapping()
	if mapping == nil {
		_, err = tec.client.Indices.Create(index).Do(ctx)
	} else {
		_, err = tec.client.Indices.Create(index).Mappings(mapping).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to create index in es: %s", err)
	}
	log.Printf("已创建快照索引: %s", index)
	return nil
}

func (tec *typedEsClient[D]) IndexDocWithID(ctx context.Context, doc D) error {
	_, err := tec.client.Index(doc.GetIndex()).
		Id(doc.GetID()).
		Document(doc).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index doc to es: %s", err)
	}
	return nil
}

func (tec *typedEsClient[D]) DocLink(doc D) string {
	return fmt.Sprintf("%s/%s/_doc/%s", tec.address, doc.GetIndex(), doc.GetID())
}
