package universe

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	universePackage = "tickverse.universe.v1"
	counterPackage  = "tickverse.counter.v1"
)

// File descriptors for tickverse/universe/v1/universe.proto and
// tickverse/counter/v1/counter.proto.
var (
	universeFile = mustFile(universeFileProto())
	counterFile  = mustFile(counterFileProto())
)

// Message descriptors used on the wire.
var (
	universeDesc              = universeFile.Messages().ByName("Universe")
	createUniverseRequestDesc = universeFile.Messages().ByName("CreateUniverseRequest")
	tickRequestDesc           = universeFile.Messages().ByName("TickRequest")
	getUniverseRequestDesc    = universeFile.Messages().ByName("GetUniverseRequest")
	listUniversesRequestDesc  = universeFile.Messages().ByName("ListUniversesRequest")
	listUniversesResponseDesc = universeFile.Messages().ByName("ListUniversesResponse")
	eventDesc                 = universeFile.Messages().ByName("Event")
	listEventsRequestDesc     = universeFile.Messages().ByName("ListEventsRequest")
	listEventsResponseDesc    = universeFile.Messages().ByName("ListEventsResponse")
	storeValueRequestDesc     = counterFile.Messages().ByName("StoreValueRequest")
	incrementRequestDesc      = counterFile.Messages().ByName("IncrementRequest")
	counterValueDesc          = counterFile.Messages().ByName("CounterValue")
)

// UniverseFileDescriptor returns the schema of the universe service.
func UniverseFileDescriptor() protoreflect.FileDescriptor { return universeFile }

// CounterFileDescriptor returns the schema of the counter service.
func CounterFileDescriptor() protoreflect.FileDescriptor { return counterFile }

func mustFile(fd *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	file, err := protodesc.NewFile(fd, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", fd.GetName(), err))
	}
	return file
}

func universeFileProto() *descriptorpb.FileDescriptorProto {
	universeRef := "." + universePackage + ".Universe"
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("tickverse/universe/v1/universe.proto"),
		Package:    proto.String(universePackage),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			message("Universe",
				scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("width", 2, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
				scalar("height", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
				scalar("owner", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				// Row-major '0' and '1' digits.
				scalar("cells", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("live_cells", 6, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			),
			message("CreateUniverseRequest"),
			message("TickRequest",
				scalar("universe_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("GetUniverseRequest",
				scalar("universe_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("ListUniversesRequest",
				scalar("page_size", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("page_token", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("ListUniversesResponse",
				repeated(messageRef("universes", 1, universeRef)),
				scalar("next_page_token", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("Event",
				scalar("seq", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
				scalar("kind", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("caller", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("universe_id", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("value", 5, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
				messageRef("timestamp", 6, ".google.protobuf.Timestamp"),
			),
			message("ListEventsRequest",
				scalar("filter", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("page_size", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("page_token", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("after_seq", 4, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
			),
			message("ListEventsResponse",
				repeated(messageRef("events", 1, "."+universePackage+".Event")),
				scalar("next_page_token", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("UniverseService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method(universePackage, "CreateUniverse", "CreateUniverseRequest", "Universe"),
				method(universePackage, "Tick", "TickRequest", "Universe"),
				method(universePackage, "GetUniverse", "GetUniverseRequest", "Universe"),
				method(universePackage, "ListUniverses", "ListUniversesRequest", "ListUniversesResponse"),
				method(universePackage, "ListEvents", "ListEventsRequest", "ListEventsResponse"),
			},
		}},
	}
}

func counterFileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("tickverse/counter/v1/counter.proto"),
		Package: proto.String(counterPackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("StoreValueRequest",
				scalar("value", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			),
			message("IncrementRequest"),
			message("CounterValue",
				scalar("value", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("CounterService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method(counterPackage, "StoreValue", "StoreValueRequest", "CounterValue"),
				method(counterPackage, "Increment", "IncrementRequest", "CounterValue"),
			},
		}},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func messageRef(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	fd := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	fd.TypeName = proto.String(typeName)
	return fd
}

func repeated(fd *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return fd
}

func method(pkg, name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + pkg + "." + input),
		OutputType: proto.String("." + pkg + "." + output),
	}
}
