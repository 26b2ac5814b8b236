package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gopherai-interview/internal/ai"
	appsvc "gopherai-interview/internal/app"
	"gopherai-interview/internal/cache"
	"gopherai-interview/internal/config"
	mysqlClient "gopherai-interview/internal/platform/mysql"
	rabbitmqClient "gopherai-interview/internal/platform/rabbitmq"
	redisClient "gopherai-interview/internal/platform/redis"
	"gopherai-interview/internal/repository"
	"gopherai-interview/internal/session"
	"gopherai-interview/internal/worker"
)

const janitorInterval = 5 * time.Minute

type App struct {
	Config        *config.Config
	Interview     *appsvc.InterviewService
	Transcripts   repository.TranscriptRepository
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	ArchiveWorker *worker.TranscriptArchiveWorker

	StartedAt time.Time

	stopJanitor context.CancelFunc
}

// New wires the interview service. Redis and RabbitMQ are optional and only
// dialed when configured; MySQL is dialed when it backs the transcript log or
// the archive worker.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	llm, err := ai.NewCompleter(cfg.LLM)
	if err != nil {
		return err
	}

	var questionCache appsvc.QuestionCache
	if cfg.Redis.Addr != "" {
		a.Redis, err = redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		questionCache = cache.NewQuestionCache(a.Redis, time.Duration(cfg.Interview.QuestionCacheTTLSeconds)*time.Second)
	}

	a.Transcripts, a.MySQL, err = OpenTranscriptRepository(ctx, cfg)
	if err != nil {
		return err
	}

	var opts []appsvc.InterviewServiceOption
	opts = append(opts, appsvc.WithTimeLimit(time.Duration(cfg.Interview.TimeLimitMinutes)*time.Minute))

	if cfg.RabbitMQ.URL != "" {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.TranscriptQueue)
		if err != nil {
			return err
		}
		opts = append(opts, appsvc.WithPublisher(rabbitmqClient.NewTranscriptPublisher(a.MQConn, cfg.RabbitMQ.TranscriptQueue)))

		if err := a.startArchiveWorker(ctx); err != nil {
			return err
		}
	}

	subject := cfg.Interview.Subject
	store := session.NewStore(appsvc.NewQuestionBank(llm, questionCache, subject))
	a.Interview = appsvc.NewInterviewService(
		store,
		appsvc.NewAnswerEvaluator(llm, subject),
		appsvc.NewSummaryComposer(llm, subject),
		a.Transcripts,
		opts...,
	)

	janitorCtx, cancel := context.WithCancel(context.Background())
	a.stopJanitor = cancel
	go store.RunJanitor(janitorCtx, time.Duration(cfg.Interview.SessionTTLMinutes)*time.Minute, janitorInterval)

	return nil
}

func (a *App) startArchiveWorker(ctx context.Context) error {
	cfg := a.Config
	if !cfg.RabbitMQ.ArchiveToMySQL {
		return nil
	}
	if cfg.Transcript.Driver == "mysql" {
		log.Printf("transcript archive skipped: transcripts are already stored in mysql")
		return nil
	}

	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return err
	}
	a.MySQL = db

	a.ArchiveWorker = worker.NewTranscriptArchiveWorker(a.MQConn, repository.NewGormTranscriptRepository(db), cfg.RabbitMQ.TranscriptQueue)
	if err := a.ArchiveWorker.Start(context.Background()); err != nil {
		return fmt.Errorf("start transcript archive worker failed: %w", err)
	}
	return nil
}

// OpenTranscriptRepository opens the transcript log selected by
// cfg.Transcript.Driver. The returned *gorm.DB is non-nil only for the mysql
// driver and must be closed by the caller.
func OpenTranscriptRepository(ctx context.Context, cfg *config.Config) (repository.TranscriptRepository, *gorm.DB, error) {
	switch cfg.Transcript.Driver {
	case "", "file":
		repo, err := repository.NewFileTranscriptRepository(cfg.Transcript.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	case "sqlite":
		repo, err := repository.NewSQLiteTranscriptRepository(ctx, cfg.Transcript.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	case "mysql":
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormTranscriptRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown transcript driver %q", cfg.Transcript.Driver)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.stopJanitor != nil {
		a.stopJanitor()
	}
	if a.ArchiveWorker != nil {
		a.ArchiveWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Transcripts != nil {
		if err := a.Transcripts.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		if err := mysqlClient.Close(a.MySQL); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
