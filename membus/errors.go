package membus

import "github.com/hdl2go/rv32pipe/coreerr"

func errOutOfRange(address uint32) error {
	return coreerr.Errorf(coreerr.LoadAccessFault, "address %#x out of range", address)
}
