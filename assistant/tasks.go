package assistant

import (
	"fmt"
	"time"

	"coco-assistant/metrics"
	"coco-assistant/scheduler"
)

const (
	msgTimerFailed    = "Sorry, I couldn't set that timer."
	msgReminderFailed = "Sorry, I couldn't set that reminder."
)

func (a *Assistant) setTimer(seconds int) {
	_, err := a.tasks.Schedule(scheduler.KindTimer, time.Duration(seconds)*time.Second, "", func(scheduler.Task) {
		a.say(fmt.Sprintf("Timer for %d seconds is up!", seconds))
	})
	if err != nil {
		a.log.Error("failed to schedule timer", "seconds", seconds, "error", err)
		a.say(msgTimerFailed)
		return
	}

	a.scheduled(scheduler.KindTimer)
	a.say(fmt.Sprintf("Timer set for %d seconds.", seconds))
}

func (a *Assistant) setReminder(message string, seconds int) {
	_, err := a.tasks.Schedule(scheduler.KindReminder, time.Duration(seconds)*time.Second, message, func(t scheduler.Task) {
		a.say("Reminder: " + t.Payload)
	})
	if err != nil {
		a.log.Error("failed to schedule reminder", "seconds", seconds, "error", err)
		a.say(msgReminderFailed)
		return
	}

	a.scheduled(scheduler.KindReminder)
	a.say(fmt.Sprintf("Reminder set for %d seconds from now.", seconds))
}

func (a *Assistant) scheduled(kind scheduler.Kind) {
	metrics.TasksScheduled.WithLabelValues(string(kind)).Inc()
	metrics.TasksPending.Set(float64(len(a.tasks.Pending())))
}
