package ticketing

import (
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
)

// MarshalConfig encodes the config in its on-chain account layout
func MarshalConfig(record *ticketconfig.Record) ([]byte, error) {
	authority, err := decodeKey(record.Authority)
	if err != nil {
		return nil, err
	}
	treasury, err := decodeKey(record.Treasury)
	if err != nil {
		return nil, err
	}

	account := &boltick.ConfigAccount{
		Authority:    authority,
		Treasury:     treasury,
		EventCount:   record.EventCount,
		TreasuryBump: record.TreasuryBump,
		Bump:         record.Bump,
	}
	return account.Marshal()
}

// MarshalEvent encodes the event in its on-chain account layout
func MarshalEvent(record *event.Record) ([]byte, error) {
	creator, err := decodeKey(record.Creator)
	if err != nil {
		return nil, err
	}
	collection, err := decodeKey(record.CollectionMint)
	if err != nil {
		return nil, err
	}

	account := &boltick.EventAccount{
		Creator:                   creator,
		CollectionMintAccount:     collection,
		CurrentNftCount:           record.CurrentNftCount,
		CurrentDigitalAccessCount: record.CurrentDigitalAccessCount,
		Date:                      record.Date.Unix(),
		Name:                      record.Name,
		Description:               record.Description,
		Bump:                      record.Bump,
	}
	return account.Marshal()
}

// MarshalDigitalAccess encodes the tier in its on-chain account layout
func MarshalDigitalAccess(record *digitalaccess.Record) ([]byte, error) {
	eventAddress, err := decodeKey(record.Event)
	if err != nil {
		return nil, err
	}

	account := &boltick.DigitalAccessAccount{
		Event:         eventAddress,
		Id:            record.AccessId,
		Price:         record.Price,
		MaxSupply:     record.MaxSupply,
		CurrentMinted: record.CurrentMinted,
		Name:          record.Name,
		Symbol:        record.Symbol,
		Description:   record.Description,
		Uri:           record.Uri,
		Bump:          record.Bump,
	}
	return account.Marshal()
}

func decodeKey(address string) ([]byte, error) {
	account, err := common.NewAccountFromPublicKeyString(address)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %s", address)
	}
	return account.ToBytes(), nil
}
