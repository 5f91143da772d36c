package train

import (
	"github.com/photoprism/agender/internal/event"
)

var log = event.Log
