package s3

import (
	"meetbook/config"
	"meetbook/infras/otel"
)

type ObjectPutter = objectPutter

func NewWithClient(config *config.Config, client ObjectPutter, ot otel.Otel) S3 {
	return newWithClient(config, client, ot)
}
