package stage

import (
	"encoding/json"
	"fmt"
)

// Listener is a callback function that receives events during staging.
type Listener func(fmt.Stringer)

func jsonString(v interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%T", v): v,
	})
	return string(b)
}

// EventManifestStaged is emitted when the staged manifest is written.
type EventManifestStaged struct {
	Source    string `json:"source,omitempty"`
	Staged    string `json:"staged,omitempty"`
	Package   string `json:"package,omitempty"`
	Version   string `json:"version,omitempty"`
	Rewritten int    `json:"rewritten,omitempty"`
}

func (e EventManifestStaged) String() string { return jsonString(e) }

// EventLockfileStaged is emitted when the staged lockfile is written.
type EventLockfileStaged struct {
	Source string `json:"source,omitempty"`
	Staged string `json:"staged,omitempty"`
	// Blocks is the number of package blocks whose version was rewritten.
	Blocks int `json:"blocks,omitempty"`
}

func (e EventLockfileStaged) String() string { return jsonString(e) }

// EventBundleWritten is emitted when a stage bundle is written.
type EventBundleWritten struct {
	Path    string `json:"path,omitempty"`
	Members int    `json:"members,omitempty"`
}

func (e EventBundleWritten) String() string { return jsonString(e) }
