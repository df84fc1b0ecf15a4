package assistant

import (
	"errors"
	"fmt"

	"coco-assistant/intent"
	"coco-assistant/metrics"
	"coco-assistant/profile"
)

func (a *Assistant) createProfile(name, dob string) {
	p, err := a.profiles.Create(name, dob)
	switch {
	case errors.Is(err, profile.ErrInvalidDOB):
		a.say(intent.UsageCreateProfile)
		return
	case err != nil:
		a.log.Error("failed to create profile", "name", name, "error", err)
		a.say("Sorry, I couldn't save that profile.")
		return
	}

	a.log.Info("profile created", "name", p.Name)
	a.say("Profile for " + p.Name + " created.")
}

func (a *Assistant) switchProfile(name string) {
	p, age, err := a.profiles.Switch(a.sess, name)
	if err != nil {
		a.say("Profile not found.")
		return
	}

	mode := "off"
	if a.sess.Restricted() {
		mode = "on"
	}

	a.log.Info("profile switched", "name", p.Name, "age", age, "kids_mode", mode)
	a.say(fmt.Sprintf("Switched to %s's profile. Age: %d. Kids mode: %s.", p.Name, age, mode))
}

func (a *Assistant) toggleMode() {
	on, err := a.profiles.ToggleMode(a.sess)
	switch {
	case errors.Is(err, profile.ErrNoProfile), errors.Is(err, profile.ErrNotFound):
		a.say("No profile selected.")
	case errors.Is(err, profile.ErrAdultsOnly):
		metrics.Refusals.WithLabelValues("adults_only").Inc()
		a.say("Only adults can toggle kids mode.")
	case err != nil:
		a.log.Error("failed to toggle kids mode", "error", err)
	case on:
		a.say("Kids mode enabled.")
	default:
		a.say("Kids mode disabled.")
	}
}
