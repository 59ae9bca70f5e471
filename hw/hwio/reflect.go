package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type regInfo struct {
	offset uint16
	regPtr *Reg16
}

type regTag struct {
	offset    uint16
	hasOffset bool
	bank      int
	reset     uint16
	rwmask    uint16
	readonly  bool
	writeonly bool
	rcb       string
	wcb       string
}

func parseRegTag(field, tag string) (regTag, error) {
	rt := regTag{rwmask: 0xFFFF}
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")
		parseNum := func(bits int) (uint64, error) {
			if !hasVal {
				return 0, fmt.Errorf("%s: option %q requires a value", field, key)
			}
			n, err := strconv.ParseUint(val, 0, bits)
			if err != nil {
				return 0, fmt.Errorf("%s: option %q: %w", field, key, err)
			}
			return n, nil
		}

		switch key {
		case "offset":
			n, err := parseNum(16)
			if err != nil {
				return rt, err
			}
			rt.offset = uint16(n)
			rt.hasOffset = true
		case "bank":
			n, err := parseNum(8)
			if err != nil {
				return rt, err
			}
			rt.bank = int(n)
		case "reset":
			n, err := parseNum(16)
			if err != nil {
				return rt, err
			}
			rt.reset = uint16(n)
		case "rwmask":
			n, err := parseNum(16)
			if err != nil {
				return rt, err
			}
			rt.rwmask = uint16(n)
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = "Read" + strings.ToUpper(field)
			if hasVal {
				rt.rcb = val
			}
		case "wcb":
			rt.wcb = "Write" + strings.ToUpper(field)
			if hasVal {
				rt.wcb = val
			}
		default:
			return rt, fmt.Errorf("%s: invalid hwio option %q", field, key)
		}
	}
	if rt.readonly && rt.writeonly {
		return rt, fmt.Errorf("%s: register cannot be both readonly and writeonly", field)
	}
	return rt, nil
}

// InitRegs initializes all the Reg16 fields of the struct pointed to by data,
// according to their "hwio" struct tag. Callbacks are looked up as methods of
// data: by default a register named Foo gets ReadFOO/WriteFOO, another method
// name can be given with rcb=Name/wcb=Name.
func InitRegs(data any) error {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: InitRegs requires a pointer to struct, got %T", data)
	}

	sv := val.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		reg, ok := sv.Field(i).Addr().Interface().(*Reg16)
		if !ok {
			return fmt.Errorf("hwio: field %s: unsupported type %s", f.Name, f.Type)
		}
		rt, err := parseRegTag(f.Name, tag)
		if err != nil {
			return fmt.Errorf("hwio: %w", err)
		}

		reg.Name = f.Name
		reg.Value = rt.reset
		reg.RoMask = ^rt.rwmask
		reg.Flags = ReadWriteFlag
		if rt.readonly {
			reg.Flags |= ReadOnlyFlag
		}
		if rt.writeonly {
			reg.Flags |= WriteOnlyFlag
		}

		reg.ReadCb = nil
		if rt.rcb != "" {
			m := val.MethodByName(rt.rcb)
			if !m.IsValid() {
				return fmt.Errorf("hwio: field %s: missing read callback %s", f.Name, rt.rcb)
			}
			cb, ok := m.Interface().(func(uint16) uint16)
			if !ok {
				return fmt.Errorf("hwio: field %s: read callback %s has wrong signature %s", f.Name, rt.rcb, m.Type())
			}
			reg.ReadCb = cb
		}

		reg.WriteCb = nil
		if rt.wcb != "" {
			m := val.MethodByName(rt.wcb)
			if !m.IsValid() {
				return fmt.Errorf("hwio: field %s: missing write callback %s", f.Name, rt.wcb)
			}
			cb, ok := m.Interface().(func(uint16, uint16))
			if !ok {
				return fmt.Errorf("hwio: field %s: write callback %s has wrong signature %s", f.Name, rt.wcb, m.Type())
			}
			reg.WriteCb = cb
		}
	}
	return nil
}

func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

// bankGetRegs returns the registers of the struct pointed to by bank, that
// belong to the given bank number.
func bankGetRegs(bank any, bankNum int) ([]regInfo, error) {
	val := reflect.ValueOf(bank)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}

	var regs []regInfo
	sv := val.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseRegTag(f.Name, tag)
		if err != nil {
			return nil, fmt.Errorf("hwio: %w", err)
		}
		if !rt.hasOffset || rt.bank != bankNum {
			continue
		}
		reg, ok := sv.Field(i).Addr().Interface().(*Reg16)
		if !ok {
			return nil, fmt.Errorf("hwio: field %s: unsupported type %s", f.Name, f.Type)
		}
		regs = append(regs, regInfo{offset: rt.offset, regPtr: reg})
	}
	return regs, nil
}
