// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// realMainnetDepositTxHex is a genuine two-input, two-output Dogecoin-style
// transaction (version 2, both inputs P2PKH-spending, first output P2SH,
// second output P2PKH), used as known-answer decode input rather than a
// synthetic byte pattern.
const realMainnetDepositTxHex = "02000000025136955474FD35B4F19064276E90E6AD7AD6732F6BF99F1E3130B9545F01CB37000000006A47304402206DD8D414BBCEB14146F58D9559159DB9557E350D2E3DB9CA06318B0AD8B10C4E02203D9BFFA49904EF779FAAE8A4DE4FC10ED6E0B7F5D5E1567999F08EB49A032FC60121037175782B4E0DFEF8BDB35F29A9E1CDBFF913B8300D7F33B6E041C862C015EB35FFFFFFFF0D29906C5646473F3CC48E8B9892FE47AE691F0B60B800DFA8B095C45590DC51000000006A4730440220140B3EEC07DC4A04D05609EDB845EFEDA748CCB1CA17FFFAC3A4B06A7DD378800220663380DD7FEC3E897B0F6ABC56BBBBACEADAA31229719C65584C8216A6DF6D4E0121037175782B4E0DFEF8BDB35F29A9E1CDBFF913B8300D7F33B6E041C862C015EB35FFFFFFFF024EC0400BF35A000017A914B1B4C196B398C9ACB414DB8E7383930C7639D6A787EF48BAD08C0E00001976A9145782169A69A599E092C2DAB929056773ABB50C9088AC00000000"

func TestMsgTxDeserializeKnownAnswer(t *testing.T) {
	raw, err := hex.DecodeString(realMainnetDepositTxHex)
	require.NoError(t, err)

	var tx MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))

	require.Equal(t, int32(2), tx.Version)
	require.Len(t, tx.TxIn, 2)
	require.Len(t, tx.TxOut, 2)
	require.Equal(t, uint32(0), tx.LockTime)

	require.Equal(t, int64(99999912345678), tx.TxOut[0].Value)
	require.Equal(t, "a914b1b4c196b398c9acb414db8e7383930c7639d6a787",
		hex.EncodeToString(tx.TxOut[0].PkScript))

	require.Equal(t, int64(15997960079599), tx.TxOut[1].Value)
	require.Equal(t, "76a9145782169a69a599e092c2dab929056773abb50c9088ac",
		hex.EncodeToString(tx.TxOut[1].PkScript))
}
