// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trace

import (
	proto "github.com/gogo/protobuf/proto"
)

// Record - one entry of a trace
type Record struct {
	Clock        int64           `protobuf:"varint,1,opt,name=clock,proto3" json:"clock,omitempty"`
	Author       string          `protobuf:"bytes,2,opt,name=author,proto3" json:"author,omitempty"`
	Recipient    string          `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient,omitempty"`
	TreeID       uint64          `protobuf:"varint,4,opt,name=tree_id,json=treeId,proto3" json:"tree_id,omitempty"`
	Leaf         uint64          `protobuf:"varint,5,opt,name=leaf,proto3" json:"leaf,omitempty"`
	Digest       []byte          `protobuf:"bytes,6,opt,name=digest,proto3" json:"digest,omitempty"`
	Splices      []*SpliceRecord `protobuf:"bytes,7,rep,name=splices,proto3" json:"splices,omitempty"`
	Signature    []byte          `protobuf:"bytes,8,opt,name=signature,proto3" json:"signature,omitempty"`
	PublicKey    []byte          `protobuf:"bytes,9,opt,name=public_key,json=publicKey,proto3" json:"public_key,omitempty"`
	Payload      []byte          `protobuf:"bytes,10,opt,name=payload,proto3" json:"payload,omitempty"`
	Control      bool            `protobuf:"varint,11,opt,name=control,proto3" json:"control,omitempty"`
	EndBuffering []string        `protobuf:"bytes,12,rep,name=end_buffering,json=endBuffering,proto3" json:"end_buffering,omitempty"`
}

func (m *Record) Reset()         { *m = Record{} }
func (m *Record) String() string { return proto.CompactTextString(m) }
func (*Record) ProtoMessage()    {}

// SpliceRecord - an earlier leaf committed to by a record's signature
type SpliceRecord struct {
	Leaf   uint64 `protobuf:"varint,1,opt,name=leaf,proto3" json:"leaf,omitempty"`
	Digest []byte `protobuf:"bytes,2,opt,name=digest,proto3" json:"digest,omitempty"`
}

func (m *SpliceRecord) Reset()         { *m = SpliceRecord{} }
func (m *SpliceRecord) String() string { return proto.CompactTextString(m) }
func (*SpliceRecord) ProtoMessage()    {}
