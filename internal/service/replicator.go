package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/stockfeed/internal/repository"
	"github.com/d60-Lab/stockfeed/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

type replicateJob struct {
	action     replicateAction
	userID     string
	followerID string
	enqAt      time.Time
}

// FollowerReplicator 本地异步冗余执行器：关注写入后将粉丝关系回填到 followers 表
type FollowerReplicator struct {
	followerRepo repository.FollowerRepository
	ch           chan replicateJob
	metricsCh    chan time.Duration
}

func NewFollowerReplicator(followerRepo repository.FollowerRepository, queueSize int) *FollowerReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &FollowerReplicator{
		followerRepo: followerRepo,
		ch:           make(chan replicateJob, queueSize),
		metricsCh:    make(chan time.Duration, 65536),
	}
}

// Start 启动 worker；返回停止函数（等待队列自然排空一小段时间）
func (r *FollowerReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					switch job.action {
					case actionAdd:
						_ = r.followerRepo.Create(ctx, job.userID, job.followerID)
					case actionRemove:
						_ = r.followerRepo.Delete(ctx, job.userID, job.followerID)
					}
					cancel()
					if !job.enqAt.IsZero() {
						select {
						case r.metricsCh <- time.Since(job.enqAt):
						default:
						}
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		// 先等队列排空再停 worker，否则残留任务会丢
		for len(r.ch) > 0 {
			select {
			case <-ctx.Done():
				close(stopCh)
				return ctx.Err()
			case <-time.After(10 * time.Millisecond):
			}
		}
		close(stopCh)
		return nil
	}
}

func (r *FollowerReplicator) EnqueueAdd(userID, followerID string) {
	select {
	case r.ch <- replicateJob{action: actionAdd, userID: userID, followerID: followerID, enqAt: time.Now()}:
	default:
		logger.Warn("replicator queue full, drop add", zap.String("user", userID), zap.String("follower", followerID))
	}
}

func (r *FollowerReplicator) EnqueueRemove(userID, followerID string) {
	select {
	case r.ch <- replicateJob{action: actionRemove, userID: userID, followerID: followerID, enqAt: time.Now()}:
	default:
		logger.Warn("replicator queue full, drop remove", zap.String("user", userID), zap.String("follower", followerID))
	}
}

// Metrics 返回冗余落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *FollowerReplicator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *FollowerReplicator) QueueLen() int { return len(r.ch) }
