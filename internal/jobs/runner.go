package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs, skipping a tick while the previous run of
// the same job is still in progress.
type TaskExecutor struct {
	cron            *cron.Cron
	cronJobs        []CronJob
	runningCronJobs mapset.Set[string]
	muCronJobs      sync.Mutex
}

func NewTaskExecutor(cronJobs ...CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewThreadUnsafeSet[string](),
	}
}

// Start schedules the jobs and starts the cron in its own goroutine.
func (t *TaskExecutor) Start() error {
	for _, job := range t.cronJobs {
		if err := t.cron.AddFunc(job.Schedule(), func() { t.runOnce(job) }); err != nil {
			logrus.Errorf("failed to add task %s to cron: %v", job.Name(), err)
			return err
		}
		logrus.Infof("scheduled task %s: %s", job.Name(), job.Schedule())
	}

	t.cron.Start()
	return nil
}

// runOnce runs job unless it is already running and reports whether it ran.
func (t *TaskExecutor) runOnce(job Job) bool {
	t.muCronJobs.Lock()
	if t.runningCronJobs.Contains(job.Name()) {
		t.muCronJobs.Unlock()
		logrus.Warnf("task %s is already running", job.Name())
		return false
	}
	t.runningCronJobs.Add(job.Name())
	t.muCronJobs.Unlock()

	defer func() {
		t.muCronJobs.Lock()
		defer t.muCronJobs.Unlock()
		t.runningCronJobs.Remove(job.Name())
	}()

	job.Run()
	return true
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
