package worker

import (
	"fmt"
	"time"

	"blog_social/internal/pkg/push"
	"blog_social/pkg/logger"

	"go.uber.org/zap"
)

// PushTask 一次设备推送任务
type PushTask struct {
	UserID uint
	Title  string
	Body   string
	Ext    map[string]string
	Retry  int // 已重试次数
}

// Dispatcher 推送任务调度器
// 通知行已经同步写库，推送失败只影响推送本身，所以放到后台队列异步处理
type Dispatcher struct {
	TaskQueue  chan PushTask
	RetryQueue chan PushTask
	Pusher     push.Service
	WorkerNum  int
	MaxRetry   int
}

// NewDispatcher 创建调度器
func NewDispatcher(pusher push.Service, workerNum int, bufferSize int) *Dispatcher {
	return &Dispatcher{
		TaskQueue:  make(chan PushTask, bufferSize),
		RetryQueue: make(chan PushTask, bufferSize/2),
		Pusher:     pusher,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

// Start 启动 worker 协程
func (d *Dispatcher) Start() {
	for i := 0; i < d.WorkerNum; i++ {
		go d.worker(i)
	}
	go d.retryWorker()
	logger.Log.Info("push dispatcher started", zap.Int("workers", d.WorkerNum))
}

func (d *Dispatcher) worker(id int) {
	for task := range d.TaskQueue {
		if err := d.processTask(task); err != nil {
			logger.Log.Warn("push task failed",
				zap.Int("worker", id),
				zap.Uint("userID", task.UserID),
				zap.Error(err),
			)

			if task.Retry < d.MaxRetry {
				task.Retry++
				select {
				case d.RetryQueue <- task:
				default:
					d.logDroppedTask(task, err)
				}
			} else {
				d.logDroppedTask(task, err)
			}
		}
	}
}

func (d *Dispatcher) retryWorker() {
	for task := range d.RetryQueue {
		// 退避后重新入队
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case d.TaskQueue <- task:
		default:
			d.logDroppedTask(task, nil)
		}
	}
}

func (d *Dispatcher) processTask(task PushTask) error {
	return d.Pusher.PushToAccount(fmt.Sprintf("%d", task.UserID), task.Title, task.Body, task.Ext)
}

func (d *Dispatcher) logDroppedTask(task PushTask, err error) {
	logger.Log.Error("push task dropped",
		zap.Uint("userID", task.UserID),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)
}

// Enqueue 任务入队，队列满时丢弃（推送是尽力而为的通道）
func (d *Dispatcher) Enqueue(task PushTask) {
	select {
	case d.TaskQueue <- task:
	default:
		d.logDroppedTask(task, nil)
	}
}
