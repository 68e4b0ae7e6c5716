package boltick

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/franRappazzini/boltick-contracts/pkg/solana/binary"
)

var (
	configAccountDiscriminator        = accountDiscriminator("Config")
	eventAccountDiscriminator         = accountDiscriminator("Event")
	digitalAccessAccountDiscriminator = accountDiscriminator("DigitalAccess")
)

type ConfigAccount struct {
	Authority    ed25519.PublicKey
	Treasury     ed25519.PublicKey
	EventCount   uint64
	TreasuryBump uint8
	Bump         uint8
}

const ConfigAccountSize = (discriminatorSize +
	32 + // authority
	32 + // treasury
	8 + // event_count
	1 + // treasury_bump
	1) // bump

func (obj *ConfigAccount) Marshal() ([]byte, error) {
	enc := binary.NewEncoder(ConfigAccountSize)
	enc.PutBytes(configAccountDiscriminator)
	enc.PutKey32(obj.Authority)
	enc.PutKey32(obj.Treasury)
	enc.PutUint64(obj.EventCount)
	enc.PutUint8(obj.TreasuryBump)
	enc.PutUint8(obj.Bump)
	return enc.Bytes()
}

func (obj *ConfigAccount) Unmarshal(data []byte) error {
	if err := checkAccountData(data, ConfigAccountSize, configAccountDiscriminator); err != nil {
		return err
	}

	dec := binary.NewDecoder(data[discriminatorSize:])
	obj.Authority = dec.GetKey32()
	obj.Treasury = dec.GetKey32()
	obj.EventCount = dec.GetUint64()
	obj.TreasuryBump = dec.GetUint8()
	obj.Bump = dec.GetUint8()
	return dec.Err()
}

func (obj *ConfigAccount) String() string {
	return fmt.Sprintf(
		"ConfigAccount{authority=%s,treasury=%s,event_count=%d}",
		base58.Encode(obj.Authority),
		base58.Encode(obj.Treasury),
		obj.EventCount,
	)
}

type EventAccount struct {
	Creator                   ed25519.PublicKey
	CollectionMintAccount     ed25519.PublicKey
	CurrentNftCount           uint64
	CurrentDigitalAccessCount uint8
	Date                      int64
	Name                      string
	Description               string
	Bump                      uint8
}

var EventAccountSize = (discriminatorSize +
	32 + // creator
	32 + // collection_mint_account
	8 + // current_nft_count
	1 + // current_digital_access_count
	8 + // date
	binary.StringSize(MaxEventNameLength) +
	binary.StringSize(MaxEventDescriptionLength) +
	1) // bump

func (obj *EventAccount) Marshal() ([]byte, error) {
	enc := binary.NewEncoder(EventAccountSize)
	enc.PutBytes(eventAccountDiscriminator)
	enc.PutKey32(obj.Creator)
	enc.PutKey32(obj.CollectionMintAccount)
	enc.PutUint64(obj.CurrentNftCount)
	enc.PutUint8(obj.CurrentDigitalAccessCount)
	enc.PutInt64(obj.Date)
	enc.PutString(obj.Name, MaxEventNameLength)
	enc.PutString(obj.Description, MaxEventDescriptionLength)
	enc.PutUint8(obj.Bump)
	return enc.Bytes()
}

func (obj *EventAccount) Unmarshal(data []byte) error {
	if err := checkAccountData(data, EventAccountSize, eventAccountDiscriminator); err != nil {
		return err
	}

	dec := binary.NewDecoder(data[discriminatorSize:])
	obj.Creator = dec.GetKey32()
	obj.CollectionMintAccount = dec.GetKey32()
	obj.CurrentNftCount = dec.GetUint64()
	obj.CurrentDigitalAccessCount = dec.GetUint8()
	obj.Date = dec.GetInt64()
	obj.Name = dec.GetString(MaxEventNameLength)
	obj.Description = dec.GetString(MaxEventDescriptionLength)
	obj.Bump = dec.GetUint8()
	return dec.Err()
}

type DigitalAccessAccount struct {
	Event         ed25519.PublicKey
	Id            uint8
	Price         uint64
	MaxSupply     uint64
	CurrentMinted uint64
	Name          string
	Symbol        string
	Description   string
	Uri           string
	Bump          uint8
}

var DigitalAccessAccountSize = (discriminatorSize +
	32 + // event
	1 + // id
	8 + // price
	8 + // max_supply
	8 + // current_minted
	binary.StringSize(MaxAccessNameLength) +
	binary.StringSize(MaxAccessSymbolLength) +
	binary.StringSize(MaxAccessDescriptionLength) +
	binary.StringSize(MaxAccessUriLength) +
	1) // bump

func (obj *DigitalAccessAccount) Marshal() ([]byte, error) {
	enc := binary.NewEncoder(DigitalAccessAccountSize)
	enc.PutBytes(digitalAccessAccountDiscriminator)
	enc.PutKey32(obj.Event)
	enc.PutUint8(obj.Id)
	enc.PutUint64(obj.Price)
	enc.PutUint64(obj.MaxSupply)
	enc.PutUint64(obj.CurrentMinted)
	enc.PutString(obj.Name, MaxAccessNameLength)
	enc.PutString(obj.Symbol, MaxAccessSymbolLength)
	enc.PutString(obj.Description, MaxAccessDescriptionLength)
	enc.PutString(obj.Uri, MaxAccessUriLength)
	enc.PutUint8(obj.Bump)
	return enc.Bytes()
}

func (obj *DigitalAccessAccount) Unmarshal(data []byte) error {
	if err := checkAccountData(data, DigitalAccessAccountSize, digitalAccessAccountDiscriminator); err != nil {
		return err
	}

	dec := binary.NewDecoder(data[discriminatorSize:])
	obj.Event = dec.GetKey32()
	obj.Id = dec.GetUint8()
	obj.Price = dec.GetUint64()
	obj.MaxSupply = dec.GetUint64()
	obj.CurrentMinted = dec.GetUint64()
	obj.Name = dec.GetString(MaxAccessNameLength)
	obj.Symbol = dec.GetString(MaxAccessSymbolLength)
	obj.Description = dec.GetString(MaxAccessDescriptionLength)
	obj.Uri = dec.GetString(MaxAccessUriLength)
	obj.Bump = dec.GetUint8()
	return dec.Err()
}

func checkAccountData(data []byte, size int, discriminator []byte) error {
	if len(data) != size {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:discriminatorSize], discriminator) {
		return ErrInvalidAccountData
	}
	return nil
}
