// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/hireloop/ingestion/internal/models"
)

func TestBuildMessage(t *testing.T) {
	p := NewPublisher(nil, "candidates")
	candidate := &models.Candidate{
		ID:     uuid.New(),
		Name:   "Rahul Mehta",
		Email:  "rahul.mehta@example.com",
		Domain: "Backend",
		Source: "email-scan",
	}

	msgJSON, taskID, err := p.buildMessage(candidate)
	if err != nil {
		t.Fatalf("buildMessage() error: %v", err)
	}
	if _, err := uuid.Parse(taskID); err != nil {
		t.Errorf("task id %q is not a uuid", taskID)
	}

	var msg celeryMessage
	if err := json.Unmarshal([]byte(msgJSON), &msg); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if msg.ContentType != "application/json" || msg.ContentEncoding != "utf-8" {
		t.Errorf("content headers = %q / %q", msg.ContentType, msg.ContentEncoding)
	}
	if msg.Headers["task"] != evaluationTask {
		t.Errorf("task header = %v", msg.Headers["task"])
	}
	if msg.Headers["id"] != taskID {
		t.Errorf("id header = %v, want %s", msg.Headers["id"], taskID)
	}
	if msg.Properties["routing_key"] != "candidates" {
		t.Errorf("routing key = %v", msg.Properties["routing_key"])
	}

	var task celeryTask
	if err := json.Unmarshal([]byte(msg.Body), &task); err != nil {
		t.Fatalf("unmarshal task body: %v", err)
	}
	if task.Task != evaluationTask || task.ID != taskID {
		t.Errorf("task = %+v", task)
	}
	if len(task.Args) != 1 {
		t.Fatalf("args = %v", task.Args)
	}

	payload, ok := task.Args[0].(string)
	if !ok {
		t.Fatalf("arg type = %T", task.Args[0])
	}
	var decoded models.Candidate
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("unmarshal candidate arg: %v", err)
	}
	if decoded.Email != candidate.Email || decoded.ID != candidate.ID {
		t.Errorf("candidate payload = %+v", decoded)
	}
}
