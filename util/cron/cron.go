package cron

import (
	"context"

	"github.com/robfig/cron"

	"reward-engine/logger"
)

type Handler func(ctx context.Context) error

type ErrHandler func(name string, err error)

func DefaultErrHandler(name string, err error) {
	if err != nil {
		logger.Logger.Errorf("run task: %s err: %v", name, err)
	}
}

type task struct {
	name       string
	spec       string
	handler    Handler
	errHandler ErrHandler
	cron       *cron.Cron
}

type Cron struct {
	tasks []task
}

func NewCron() *Cron {
	return &Cron{
		tasks: make([]task, 0),
	}
}

// Register schedules handler under the given cron spec. The default error
// handler just logs.
func (c *Cron) Register(name, spec string, handler Handler, errHandlers ...ErrHandler) {
	errHandler := DefaultErrHandler
	if len(errHandlers) > 0 {
		errHandler = errHandlers[0]
	}
	job := cron.New()
	err := job.AddFunc(spec, func() {
		logger.Logger.Infof("[cron] run task: %s", name)
		err := handler(context.Background())
		if err != nil {
			errHandler(name, err)
		}
		logger.Logger.Infof("[cron] run task end: %s", name)
	})
	if err != nil {
		logger.Logger.Fatalf("[cron] job.AddFunc err, name: %s, err: %v", name, err)
	}
	c.tasks = append(c.tasks, task{
		name:       name,
		spec:       spec,
		handler:    handler,
		errHandler: errHandler,
		cron:       job,
	})
}

func (c *Cron) Run() {
	for i := range c.tasks {
		c.tasks[i].cron.Start()
	}
}

func (c *Cron) Stop() {
	for i := range c.tasks {
		c.tasks[i].cron.Stop()
	}
}
