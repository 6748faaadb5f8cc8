package protocol

import (
	"encoding/json"
	"testing"
)

func TestEncodeWrapsPayload(t *testing.T) {
	data, err := Encode(EventChooseTarget, CellMsg{RoomID: "abc", Row: 1, Col: 2})
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["event"] != "choose target" {
		t.Errorf("expected event 'choose target', got %v", m["event"])
	}
	payload, ok := m["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", m["data"])
	}
	if payload["room_id"] != "abc" || payload["row"] != float64(1) || payload["col"] != float64(2) {
		t.Errorf("unexpected payload %v", payload)
	}
}

func TestEncodeNilPayloadOmitsData(t *testing.T) {
	data, err := Encode(EventHeartbeat, nil)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	json.Unmarshal(data, &m)
	if _, ok := m["data"]; ok {
		t.Error("nil payload should not produce a data field")
	}
}

func TestDecode(t *testing.T) {
	env, err := Decode([]byte(`{"event":"full game error","data":{"destination_url":"/"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if env.Event != EventFullGameError {
		t.Errorf("unexpected event %q", env.Event)
	}
	var msg FullGameErrorMsg
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.DestinationURL != "/" {
		t.Errorf("unexpected destination %q", msg.DestinationURL)
	}
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	for _, frame := range []string{`not json`, `{"data":{}}`, `[]`} {
		if _, err := Decode([]byte(frame)); err == nil {
			t.Errorf("expected error for frame %s", frame)
		}
	}
}

func TestGamePayloadOpponentCardsWithoutFace(t *testing.T) {
	raw := `{"myBoard":{"cards":[[{"flipped":false,"face":"a.png"}]],"target":null},
	         "theirBoard":{"cards":[[{"flipped":true}]],"has_target":true}}`
	var p GamePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	if p.MyBoard.Target != nil {
		t.Errorf("null target should decode to nil, got %q", *p.MyBoard.Target)
	}
	if p.TheirBoard.Cards[0][0].Face != "" || !p.TheirBoard.Cards[0][0].Flipped {
		t.Errorf("unexpected opponent card %+v", p.TheirBoard.Cards[0][0])
	}
	if !p.TheirBoard.HasTarget {
		t.Error("expected has_target=true")
	}
}
