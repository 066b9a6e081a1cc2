/*
Package logger - GORM 日志适配

SQL 日志统一走 zap，并附带:
  - request_id（来自 context，贯穿一次收银请求的所有语句）
  - operation / table（从 SQL 提取，便于按 transactions、transaction_details 过滤）

约束冲突（商品编码重复、被交易引用的商品删除、购物车中不存在的商品）会被仓储
翻译成业务错误返回 4xx，这里只记 Warn，不当作数据库故障。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

type GormLoggerConfig struct {
	SlowThreshold time.Duration

	// 仓储用 (nil, nil) 表示记录不存在，默认不记录 ErrRecordNotFound
	IgnoreRecordNotFoundError bool

	// ConstraintViolation 判断错误是否为会被仓储翻译的约束冲突，nil 表示全部按 Error 记录
	ConstraintViolation func(error) bool
}

func DefaultGormLoggerConfig() *GormLoggerConfig {
	return &GormLoggerConfig{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	}
}

type GormLoggerAdapter struct {
	level  gormlogger.LogLevel
	config *GormLoggerConfig
}

func NewGormLoggerAdapter(level gormlogger.LogLevel) *GormLoggerAdapter {
	return NewGormLoggerAdapterWithConfig(level, DefaultGormLoggerConfig())
}

func NewGormLoggerAdapterWithConfig(level gormlogger.LogLevel, config *GormLoggerConfig) *GormLoggerAdapter {
	if config == nil {
		config = DefaultGormLoggerConfig()
	}
	return &GormLoggerAdapter{level: level, config: config}
}

func (l *GormLoggerAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLoggerAdapter{level: level, config: l.config}
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, args...)
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, args...)
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, args...)
}

func (l *GormLoggerAdapter) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, args ...interface{}) {
	if l.level < min {
		return
	}
	if ce := l.base(ctx).Check(lvl, fmt.Sprintf(msg, args...)); ce != nil {
		ce.Write()
	}
}

// base 每次取全局 logger，Init 之后创建的连接也能用上新配置
func (l *GormLoggerAdapter) base(ctx context.Context) *zap.Logger {
	base := log
	if base == nil {
		base = zap.NewNop()
	}
	base = base.With(zap.String("component", "gorm"))
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		base = base.With(zap.String("request_id", requestID))
	}
	return base
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)
	operation, table := describeSQL(sql)
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("table", table),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	log := l.base(ctx)

	switch {
	case err != nil && errors.Is(err, gormlogger.ErrRecordNotFound) && l.config.IgnoreRecordNotFoundError:
		return
	case err != nil && l.config.ConstraintViolation != nil && l.config.ConstraintViolation(err):
		if l.level >= gormlogger.Warn {
			log.Warn("Constraint violation", append(fields, zap.Error(err))...)
		}
	case err != nil:
		if l.level >= gormlogger.Error {
			log.Error("Database operation failed", append(fields, zap.Error(err))...)
		}
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold:
		if l.level >= gormlogger.Warn {
			log.Warn("Slow SQL query", append(fields, zap.Duration("threshold", l.config.SlowThreshold))...)
		}
	default:
		if l.level >= gormlogger.Info {
			log.Info("SQL query executed", fields...)
		}
	}
}

// describeSQL 提取语句类型和主表名，解析失败时返回空串
func describeSQL(sql string) (operation, table string) {
	tokens := strings.Fields(sql)
	if len(tokens) == 0 {
		return "", ""
	}
	operation = strings.ToUpper(tokens[0])

	for i := 0; i < len(tokens)-1; i++ {
		switch strings.ToUpper(tokens[i]) {
		case "FROM", "INTO", "UPDATE":
			return operation, strings.Trim(tokens[i+1], "`\"(;")
		}
	}
	return operation, ""
}
