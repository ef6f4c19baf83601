package extern

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// BuildDescriptor models one loaded host-module manifest as a
// protobuf DescriptorProto, exactly the way kdlc/mdesc/proto.go builds
// a FileDescriptorProto for marker definitions by hand (compileDesc)
// without ever invoking protoc: one FieldDescriptorProto per exported
// member, the field's Number set to the member's declared arity plus
// one (protobuf field numbers start at 1, and arity can be zero) so
// the arity survives a round trip through the descriptor without a
// custom extension.
func BuildDescriptor(m *Manifest) *descriptorpb.DescriptorProto {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String(sanitizeName(m.HostPath)),
	}
	strType := descriptorpb.FieldDescriptorProto_TYPE_STRING
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	for _, mem := range m.Members {
		desc.Field = append(desc.Field, &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(mem.Name),
			Number: proto.Int32(int32(mem.Arity) + 1),
			Type:   &strType,
			Label:  &optional,
		})
	}
	return desc
}

func sanitizeName(hostPath string) string {
	out := make([]rune, 0, len(hostPath))
	for _, r := range hostPath {
		if r == '/' || r == '-' || r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// WriteCacheEntry appends one descriptor to w, varint-length-prefixed
// exactly the way backends/common/respond.Write frames protobuf
// responses (protowire.AppendVarint header) - reused here for the
// on-disk extern-descriptor cache (`.sigil-extern-cache`).
func WriteCacheEntry(w io.Writer, desc *descriptorpb.DescriptorProto) error {
	payload, err := proto.Marshal(desc)
	if err != nil {
		return err
	}
	framed := protowire.AppendVarint(nil, uint64(len(payload)))
	framed = append(framed, payload...)
	_, err = w.Write(framed)
	return err
}

// ReadCacheEntries decodes every varint-length-prefixed descriptor
// from a full cache-file buffer, the read-back half of
// WriteCacheEntry's framing.
func ReadCacheEntries(buf []byte) ([]*descriptorpb.DescriptorProto, error) {
	var entries []*descriptorpb.DescriptorProto
	for len(buf) > 0 {
		n, width := protowire.ConsumeVarint(buf)
		if width < 0 {
			return nil, fmt.Errorf("extern cache: corrupt varint length prefix")
		}
		buf = buf[width:]
		if uint64(len(buf)) < n {
			return nil, fmt.Errorf("extern cache: truncated entry")
		}
		var desc descriptorpb.DescriptorProto
		if err := proto.Unmarshal(buf[:n], &desc); err != nil {
			return nil, err
		}
		entries = append(entries, &desc)
		buf = buf[n:]
	}
	return entries, nil
}
