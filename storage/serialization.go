// Copyright 2025 Poiesic Systems
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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/resumatch/core"
)

// Record layout, in order:
//
//	Position        varint int
//	Identifier      string
//	ContentHash     string
//	Text            string
//	TechnicalSkills string list
//	SoftSkills      string list
//	Certifications  string list
//	YearsExperience string
//	IngestedAt      varint int64, unix microseconds
//
// A string list is a varint count followed by that many strings.

// MarshalDocumentRecord serializes a DocumentRecord to bytes.
func MarshalDocumentRecord(record *core.DocumentRecord) []byte {
	buf := make([]byte, sizeRecord(record))
	marshalRecord(record, buf)
	return buf
}

// UnmarshalDocumentRecord deserializes a DocumentRecord from bytes.
func UnmarshalDocumentRecord(data []byte) (*core.DocumentRecord, error) {
	record, _, err := unmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: record: %w", ErrSerializationFailed, err)
	}
	return record, nil
}

// MarshalVector serializes a vector as a varint length followed by raw float32 values.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += raw.Float32.Size(v)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 || length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: vector of %d values in %d bytes", ErrTruncatedData, length, len(data)-n)
	}
	vector := make([]float32, length)
	for i := range vector {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector value %d: %w", ErrSerializationFailed, i, err)
		}
		vector[i] = v
		n += m
	}
	return vector, nil
}

func sizeRecord(r *core.DocumentRecord) int {
	return varint.Int.Size(r.Position) +
		ord.String.Size(r.Identifier) +
		ord.String.Size(r.ContentHash) +
		ord.String.Size(r.Text) +
		sizeStrings(r.Skills.TechnicalSkills) +
		sizeStrings(r.Skills.SoftSkills) +
		sizeStrings(r.Skills.Certifications) +
		ord.String.Size(r.Skills.YearsExperience) +
		varint.Int64.Size(r.IngestedAt.UnixMicro())
}

func marshalRecord(r *core.DocumentRecord, bs []byte) (n int) {
	n = varint.Int.Marshal(r.Position, bs)
	n += ord.String.Marshal(r.Identifier, bs[n:])
	n += ord.String.Marshal(r.ContentHash, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += marshalStrings(r.Skills.TechnicalSkills, bs[n:])
	n += marshalStrings(r.Skills.SoftSkills, bs[n:])
	n += marshalStrings(r.Skills.Certifications, bs[n:])
	n += ord.String.Marshal(r.Skills.YearsExperience, bs[n:])
	n += varint.Int64.Marshal(r.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func unmarshalRecord(bs []byte) (*core.DocumentRecord, int, error) {
	var (
		r   core.DocumentRecord
		n   int
		m   int
		err error
	)
	if r.Position, m, err = varint.Int.Unmarshal(bs); err != nil {
		return nil, n, err
	}
	n += m
	if r.Identifier, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.ContentHash, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.Skills.TechnicalSkills, m, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.Skills.SoftSkills, m, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.Skills.Certifications, m, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	if r.Skills.YearsExperience, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += m
	micros, m, err := varint.Int64.Unmarshal(bs[n:])
	if err != nil {
		return nil, n, err
	}
	n += m
	r.IngestedAt = time.UnixMicro(micros).UTC()
	return &r, n, nil
}

func sizeStrings(list []string) int {
	size := varint.Int.Size(len(list))
	for _, s := range list {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(list []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(list), bs)
	for _, s := range list {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) ([]string, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	// Every string takes at least one byte for its length.
	if length < 0 || length > len(bs)-n {
		return nil, n, ErrTruncatedData
	}
	list := make([]string, length)
	for i := range list {
		s, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n, err
		}
		list[i] = s
		n += m
	}
	return list, n, nil
}
