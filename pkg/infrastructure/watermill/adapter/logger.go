package adapter

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
)

const componentField = "component"

// watermillLoggerAdapter encaminha os logs internos do watermill para o AppLogger da aplicação.
// Os níveis descem um degrau: o Info do watermill (assinaturas, offsets) vira Debug.
type watermillLoggerAdapter struct {
	appLogger application.AppLogger
	fields    watermill.LogFields
}

func NewWatermillLoggerAdapter(appLogger application.AppLogger) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		appLogger: appLogger,
		fields:    watermill.LogFields{componentField: "watermill"},
	}
}

func (a *watermillLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	application.LogError(context.Background(), a.appLogger, msg, err, a.merge(fields))
}

func (a *watermillLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	application.LogDebug(context.Background(), a.appLogger, msg, a.merge(fields))
}

func (a *watermillLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	application.LogTrace(context.Background(), a.appLogger, msg, a.merge(fields))
}

func (a *watermillLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	application.LogTrace(context.Background(), a.appLogger, msg, a.merge(fields))
}

func (a *watermillLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		appLogger: a.appLogger,
		fields:    a.fields.Add(fields),
	}
}

func (a *watermillLoggerAdapter) merge(fields watermill.LogFields) map[string]interface{} {
	return a.fields.Add(fields)
}
