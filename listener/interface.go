package listener

import "coco-assistant/speech"

type Interface interface {
	speech.Listener
	Close() error
}
