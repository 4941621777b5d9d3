package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func Decode[T any](bz []byte) (T, error) {
	v := new(T)
	err := json.Unmarshal(bz, v)
	if err != nil {
		return *v, eris.Wrap(err, "")
	}
	return *v, nil
}

func Encode(v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

// EncodeLine encodes v and appends a trailing newline, for line-delimited JSON output.
func EncodeLine(v any) ([]byte, error) {
	bz, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return append(bz, '\n'), nil
}
