package abi

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

const protoPackage = "contractc.abi"

// Describe builds a protobuf service descriptor for an ABI: one rpc per
// method with request and response messages mirroring the parameter and
// return types. Tooling outside the compiler uses it to call deployed
// contracts.
func Describe(engine *typesystem.Engine, abiName string, methods []*typed.FunctionDeclaration) (*desc.FileDescriptor, error) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(strings.ToLower(abiName) + ".proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
	}
	svc := &descriptorpb.ServiceDescriptorProto{Name: proto.String(abiName)}

	for _, m := range methods {
		base := exportedName(m.Name.Value)
		req := &descriptorpb.DescriptorProto{Name: proto.String(base + "Request")}
		for i, p := range m.Parameters {
			req.Field = append(req.Field, fieldFor(engine, p.Name, int32(i+1), p.TypeID))
		}
		resp := &descriptorpb.DescriptorProto{Name: proto.String(base + "Response")}
		if _, unit := engine.LookUp(m.ReturnType).(typesystem.Unit); !unit {
			resp.Field = append(resp.Field, fieldFor(engine, "value", 1, m.ReturnType))
		}
		fd.MessageType = append(fd.MessageType, req, resp)
		svc.Method = append(svc.Method, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(base),
			InputType:  proto.String("." + protoPackage + "." + req.GetName()),
			OutputType: proto.String("." + protoPackage + "." + resp.GetName()),
		})
	}
	fd.Service = append(fd.Service, svc)

	out, err := desc.CreateFileDescriptor(fd)
	if err != nil {
		return nil, fmt.Errorf("abi %s: %w", abiName, err)
	}
	return out, nil
}

// fieldFor maps a type onto the closest protobuf scalar. Aggregates are
// carried as their ABI encoding in a bytes field.
func fieldFor(engine *typesystem.Engine, name string, number int32, id typesystem.TypeID) *descriptorpb.FieldDescriptorProto {
	typ := descriptorpb.FieldDescriptorProto_TYPE_BYTES
	switch t := engine.LookUp(id).(type) {
	case typesystem.UnsignedInteger:
		if t.Bits == typesystem.SixtyFour {
			typ = descriptorpb.FieldDescriptorProto_TYPE_UINT64
		} else {
			typ = descriptorpb.FieldDescriptorProto_TYPE_UINT32
		}
	case typesystem.Byte:
		typ = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	case typesystem.Boolean:
		typ = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	case typesystem.Str:
		typ = descriptorpb.FieldDescriptorProto_TYPE_STRING
	}
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func exportedName(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

// --- Call-site descriptors ---

var (
	callSiteOnce sync.Once
	callSiteMD   *desc.MessageDescriptor
	callSiteErr  error
)

func callSiteDescriptor() (*desc.MessageDescriptor, error) {
	callSiteOnce.Do(func() {
		field := func(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
			return &descriptorpb.FieldDescriptorProto{
				Name:   proto.String(name),
				Number: proto.Int32(number),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				Type:   typ.Enum(),
			}
		}
		msg := &descriptorpb.DescriptorProto{Name: proto.String("CallSite")}
		msg.Field = []*descriptorpb.FieldDescriptorProto{
			field("function", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			field("selector", 2, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
			field("contract_address", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			field("has_gas", 4, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			field("has_coins", 5, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			field("has_asset_id", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
		}
		fd := &descriptorpb.FileDescriptorProto{
			Name:        proto.String("callsite.proto"),
			Package:     proto.String(protoPackage),
			Syntax:      proto.String("proto3"),
			MessageType: []*descriptorpb.DescriptorProto{msg},
		}
		file, err := desc.CreateFileDescriptor(fd)
		if err != nil {
			callSiteErr = err
			return
		}
		callSiteMD = file.FindMessage(protoPackage + ".CallSite")
	})
	return callSiteMD, callSiteErr
}

// CallSite is the decoded form of an encoded contract call site.
type CallSite struct {
	Function        string
	Selector        [config.SelectorLength]byte
	ContractAddress string
	HasGas          bool
	HasCoins        bool
	HasAssetID      bool
}

// NewCallSite extracts the call-site descriptor of a resolved contract call.
func NewCallSite(app typed.FunctionApplication, address string) CallSite {
	cs := CallSite{Function: app.Name.String(), ContractAddress: address}
	if app.Selector != nil {
		cs.Selector = app.Selector.FuncSelector
	}
	_, cs.HasGas = app.ContractCallParams[config.ContractCallGasParameterName]
	_, cs.HasCoins = app.ContractCallParams[config.ContractCallCoinsParameterName]
	_, cs.HasAssetID = app.ContractCallParams[config.ContractCallAssetIDParameterName]
	return cs
}

// EncodeCallSite serializes cs as a protobuf message for code generation.
func EncodeCallSite(cs CallSite) ([]byte, error) {
	md, err := callSiteDescriptor()
	if err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(md)
	values := map[string]interface{}{
		"function":         cs.Function,
		"selector":         cs.Selector[:],
		"contract_address": cs.ContractAddress,
		"has_gas":          cs.HasGas,
		"has_coins":        cs.HasCoins,
		"has_asset_id":     cs.HasAssetID,
	}
	for name, v := range values {
		if err := msg.TrySetFieldByName(name, v); err != nil {
			return nil, fmt.Errorf("call site field %s: %w", name, err)
		}
	}
	return msg.Marshal()
}

// DecodeCallSite is the inverse of EncodeCallSite.
func DecodeCallSite(data []byte) (CallSite, error) {
	var cs CallSite
	md, err := callSiteDescriptor()
	if err != nil {
		return cs, err
	}
	msg := dynamic.NewMessage(md)
	if err := msg.Unmarshal(data); err != nil {
		return cs, fmt.Errorf("unmarshal call site: %w", err)
	}
	cs.Function, _ = msg.GetFieldByName("function").(string)
	if sel, ok := msg.GetFieldByName("selector").([]byte); ok {
		copy(cs.Selector[:], sel)
	}
	cs.ContractAddress, _ = msg.GetFieldByName("contract_address").(string)
	cs.HasGas, _ = msg.GetFieldByName("has_gas").(bool)
	cs.HasCoins, _ = msg.GetFieldByName("has_coins").(bool)
	cs.HasAssetID, _ = msg.GetFieldByName("has_asset_id").(bool)
	return cs, nil
}
