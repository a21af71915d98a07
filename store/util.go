package store

import (
	"encoding/binary"

	"github.com/vmihailenco/msgpack/v4"
)

func uint32ToBytes(d uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, d)
	return buf
}

func bytesToUint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

func MsgpackMarshalPanic(val interface{}) []byte {
	payload, err := msgpack.Marshal(val)
	if err != nil {
		panic(err)
	}
	return payload
}

func MsgpackUnmarshal(data []byte, val interface{}) error {
	return msgpack.Unmarshal(data, val)
}
