/*Package sds provides a seekable byte stream that reads and writes either a
file on the local filesystem or an entry of a read-only resource bundle.

A Stream is opened with one of seven modes. Read-only modes can resolve their
path inside a Bundle (an asset directory, a zip or apk archive, an S3 prefix,
or entries held in memory); write-capable modes always go to the filesystem.
Both backends expose the same cursor, size and status-bit behaviour, so code
reading game data or settings does not care where the bytes live.

Failures are reported through sticky status bits rather than errors: EOF,
Fail and Bad. Reaching the end of a stream sets EOF and is not a failure.
Stream.ReadWriteSeeker adapts a Stream to the io interfaces for callers that
want errors instead.

Typed helpers (ReadValue, WriteValue, ReadString8, WriteString32, ...) move
little-endian fixed-size values and length-prefixed strings. StringSplit,
StringMap and ToU32 parse simple "key=value" settings text.

Bundles and extraction are configured through viper: a sdsrc file in the
working directory or $HOME/.sds, SDS_* environment variables, and Options.
*/
package sds
